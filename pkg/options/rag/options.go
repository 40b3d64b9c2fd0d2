// Package rag provides context index (retrieval) configuration options.
package rag

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/secq/pkg/options"
	llmopts "github.com/kart-io/secq/pkg/options/llm"
)

var _ options.IOptions = (*Options)(nil)

const (
	// DefaultCollection is the collection the source document is stored in.
	DefaultCollection = "all-my-documents"
	// DefaultDocumentID is the id of the single indexed document.
	DefaultDocumentID = "pdf1"
)

// Options contains retrieval configuration.
type Options struct {
	// Collection is the name of the in-memory collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// DocumentID is the id of the indexed source document.
	DocumentID string `json:"document-id" mapstructure:"document-id"`

	// TopK is the number of nearest documents returned by a query.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// EmbeddingDim is the vector dimension of the local embedder.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// Embedding selects the provider that embeds the document and queries.
	Embedding *llmopts.Options `json:"embedding" mapstructure:"embedding"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Collection:   DefaultCollection,
		DocumentID:   DefaultDocumentID,
		TopK:         1,
		EmbeddingDim: 256,
		Embedding:    llmopts.NewEmbeddingOptions(),
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Collection, p+"collection", o.Collection, "Name of the in-memory document collection.")
	fs.StringVar(&o.DocumentID, p+"document-id", o.DocumentID, "Id of the indexed source document.")
	fs.IntVar(&o.TopK, p+"top-k", o.TopK, "Number of nearest documents used as context.")
	fs.IntVar(&o.EmbeddingDim, p+"embedding-dim", o.EmbeddingDim, "Vector dimension of the local embedder.")

	if o.Embedding == nil {
		o.Embedding = llmopts.NewEmbeddingOptions()
	}
	o.Embedding.AddFlags(fs, append(prefixes, "embedding")...)
}

// Validate validates the retrieval options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("rag.collection is required"))
	}
	if o.DocumentID == "" {
		errs = append(errs, fmt.Errorf("rag.document-id is required"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("rag.top-k must be positive"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("rag.embedding-dim must be positive"))
	}
	for _, err := range o.Embedding.Validate() {
		errs = append(errs, fmt.Errorf("rag.embedding.%w", err))
	}
	return errs
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	if o.Embedding == nil {
		o.Embedding = llmopts.NewEmbeddingOptions()
	}
	return o.Embedding.Complete()
}

// EmbeddingConfig returns the factory config of the embedding provider.
func (o *Options) EmbeddingConfig() map[string]any {
	cfg := o.Embedding.LLM.ToConfigMap()
	cfg["dimensions"] = o.EmbeddingDim
	return cfg
}
