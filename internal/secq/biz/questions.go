package biz

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kart-io/logger"

	"github.com/kart-io/secq/internal/secq/model"
	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/utils/json"
)

type questionSet struct {
	Questions json.RawMessage `json:"questions"`
}

// LoadQuestions 读取问题集文件 {"questions": [...]}。
// 文件不存在返回 ErrFileNotFound，内容不是 JSON 对象或 questions 不是列表返回 ErrInvalidFormat。
// 缺少 questions 键时返回空列表。
func LoadQuestions(path string) ([]*model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Errorw("Security questions file not found", "path", path)
			return nil, secqerrors.ErrFileNotFound.WithMessagef("security questions file not found: %s", path)
		}
		return nil, secqerrors.ErrInvalidFormat.WithCause(err)
	}

	var set questionSet
	if err := json.Unmarshal(data, &set); err != nil {
		logger.Errorw("Invalid JSON format in security questions file", "path", path, "error", err.Error())
		return nil, secqerrors.ErrInvalidFormat.WithCause(err)
	}

	var raws []json.RawMessage
	if len(set.Questions) > 0 && string(set.Questions) != "null" {
		if err := json.Unmarshal(set.Questions, &raws); err != nil {
			logger.Errorw("Security questions must be a list", "path", path, "error", err.Error())
			return nil, secqerrors.ErrInvalidFormat.WithCause(fmt.Errorf("questions is not a list: %w", err))
		}
	}

	questions := make([]*model.Question, 0, len(raws))
	for _, raw := range raws {
		questions = append(questions, model.ParseQuestion(raw))
	}

	logger.Infow("Loaded security questions", "count", len(questions), "path", path)
	return questions, nil
}
