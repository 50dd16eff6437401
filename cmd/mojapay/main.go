package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/zeebo/clingy"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ok, err := clingy.Environment{}.Run(ctx, func(cmds clingy.Commands) {
		cmds.New("bulk", "Pays every recipient of a CSV file", new(cmdBulk))
		cmds.New("send", "Sends a single payment", new(cmdSend))
		cmds.Group("history", "Shows and manages the transaction history", func() {
			cmds.New("list", "Lists past transactions", new(cmdHistoryList))
			cmds.New("stats", "Summarizes past transactions", new(cmdHistoryStats))
			cmds.New("export", "Exports the history to a CSV file", new(cmdHistoryExport))
			cmds.New("clear", "Deletes the whole history", new(cmdHistoryClear))
		})
		cmds.New("sample", "Writes a sample recipients CSV file", new(cmdSample))
		cmds.New("lang", "Shows or sets the display language", new(cmdLang))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed: %+v\n", err)
		return err
	}
	if !ok {
		return errors.New("usage error")
	}
	return nil
}
