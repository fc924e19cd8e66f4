package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/zurustar/calc/pkg/app"
)

func main() {
	application := app.New()
	if err := application.Run(os.Args[1:]); err != nil {
		// スクリプトのエラーはすでに表示済み
		if !errors.Is(err, app.ErrScriptFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
