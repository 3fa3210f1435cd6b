package main

import (
	"os"

	"github.com/koustreak/schemagen/cmd/schemagen/cmd"
	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.L().With().
			Str("kind", errs.KindOf(err).String()).
			Any("details", errs.DetailsOf(err)).
			Err(err).
			Logger().
			Error("schemagen failed")
		os.Exit(1)
	}
}
