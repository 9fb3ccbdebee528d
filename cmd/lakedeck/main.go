package main

import (
	"github.com/lakedeck/lakedeck/protocol"
	"github.com/lakedeck/lakedeck/utils/logger"
	"github.com/lakedeck/lakedeck/utils/safego"
)

func main() {
	defer safego.Recovery(false)

	if err := protocol.CreateRootCommand().Execute(); err != nil {
		logger.Fatal(err)
	}
}
