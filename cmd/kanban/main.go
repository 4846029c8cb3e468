package main

import (
	"github.com/rs/zerolog/log"

	"github.com/gosuda/kanban/cmd/kanban/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal().Err(err).Msg("kanban failed")
	}
}
