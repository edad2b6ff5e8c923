package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/darasa/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/note"
	"github.com/trezcool/darasa/core/syllabus"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifysvc "github.com/trezcool/darasa/services/notifier"
	"github.com/trezcool/darasa/storage/database"
	"github.com/trezcool/darasa/storage/database/inmem"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
	"github.com/trezcool/darasa/storage/seed"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	if err := run(logger); err != nil {
		logger.Error("startup failed", err)
		os.Exit(1)
	}
}

func run(logger core.Logger) error {
	repos, closeDB, err := buildRepos()
	if err != nil {
		return err
	}
	defer closeDB()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	notifier := notifysvc.NewStore(logger)

	usrSvc := user.NewService(repos.User, mailSvc)
	noteSvc := note.NewService(repos.Note)
	syllSvc := syllabus.NewService(repos.Syllabus, noteSvc)
	commSvc := community.NewService(repos.Community, notifier, syllSvc, noteSvc)

	if core.Conf.DemoData {
		if err = seed.Load(context.Background(), repos); err != nil {
			return errors.Wrap(err, "loading demo data")
		}
		logger.Info("demo data loaded")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:       core.Conf.Server.Addr,
		Logger:        logger,
		UserSvc:       usrSvc,
		SyllabusSvc:   syllSvc,
		NoteSvc:       noteSvc,
		CommunitySvc:  commSvc,
		Notifications: notifier,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + core.Conf.Server.Addr)
		serverErrors <- app.Start()
	}()

	select {
	case err = <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "server error")
		}
	case sig := <-shutdown:
		logger.Info("shutdown started: " + sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = app.Stop(ctx); err != nil {
			return errors.Wrap(err, "stopping server")
		}
		logger.Info("shutdown complete")
	}
	return nil
}

func buildRepos() (seed.Repos, func(), error) {
	if core.Conf.Database.Engine == "inmem" {
		db := inmem.NewDB()
		return seed.Repos{
			User:      inmem.NewUserRepository(db),
			Syllabus:  inmem.NewSyllabusRepository(db),
			Note:      inmem.NewNoteRepository(db),
			Community: inmem.NewCommunityRepository(db),
		}, func() {}, nil
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return seed.Repos{}, nil, err
	}
	if err = database.Migrate(db, core.Conf.Database.Engine); err != nil {
		_ = db.Close()
		return seed.Repos{}, nil, err
	}
	return seed.Repos{
		User:      sqlxrepos.NewUserRepository(db),
		Syllabus:  sqlxrepos.NewSyllabusRepository(db),
		Note:      sqlxrepos.NewNoteRepository(db),
		Community: sqlxrepos.NewCommunityRepository(db),
	}, func() { _ = db.Close() }, nil
}
