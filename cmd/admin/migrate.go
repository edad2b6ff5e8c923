package main

import (
	"errors"

	"github.com/pressly/goose/v3"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/migrations"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.New("migrations require a sql database engine")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(core.Conf.Database.Engine); err != nil {
		return err
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return gooseRunFunc(args[0], cli.db.DB, ".", rest...)
}
