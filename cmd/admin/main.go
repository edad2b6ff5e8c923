package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
	"github.com/trezcool/darasa/storage/database/inmem"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var (
		db      *sqlx.DB
		usrRepo user.Repository
		err     error
	)
	if core.Conf.Database.Engine == "inmem" {
		usrRepo = inmem.NewUserRepository(inmem.NewDB())
	} else {
		db, err = database.Open(core.Conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		usrRepo = sqlxrepos.NewUserRepository(db)
	}

	cli := commandLine{
		db:      db,
		usrRepo: usrRepo,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
