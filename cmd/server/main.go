package main

import (
	"flag"
	"log/slog"
	"os"

	"reunion/bot"
	"reunion/impl/core"
	"reunion/impl/issuer"
	"reunion/internal/config"
	"reunion/internal/database"
	"reunion/internal/http-server/api"
	"reunion/internal/mailer"
	"reunion/lib/logger"
	"reunion/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/reunion.log", "path to log file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting reunion api",
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
	)

	var store core.Store
	if conf.MySQL.Enabled {
		sqlStore, err := database.NewSQLClient(conf)
		if err != nil {
			log.Error("connect to mysql", sl.Err(err))
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	} else {
		log.Warn("mysql disabled, registrations are kept in memory")
		store = database.NewInMemory()
	}

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.ChatId, log)
		if err != nil {
			log.Error("telegram bot init", sl.Err(err))
		} else {
			// mirror ERROR records to the organizers' chat
			log = slog.New(logger.NewTelegramHandler(log.Handler(), tgBot, slog.LevelError))
		}
	}

	codeIssuer := issuer.New(store, issuer.DefaultMaxAttempts, log)
	handler := core.New(store, codeIssuer, log)

	if conf.Mongo.Enabled {
		handler.SetUserStore(database.NewMongoClient(conf))
	}
	if conf.Email.Enabled {
		handler.AddNotifier(mailer.NewClient(mailer.Config{
			APIKey:  conf.Email.ResendKey,
			From:    conf.Email.From,
			SiteURL: conf.SiteURL,
		}, log))
	}
	if tgBot != nil {
		handler.AddNotifier(tgBot)
	}

	if err := api.New(conf, log, handler); err != nil {
		log.Error("api server stopped", sl.Err(err))
		os.Exit(1)
	}
}
