// Package main is the entry point for secq, the security questionnaire report generator.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/secq/cmd/secq/app"
)

func main() {
	app.NewApp().Run()
}
