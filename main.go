package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/vpatov/justpoker-sub000/game"
	"github.com/vpatov/justpoker-sub000/gamescript"
	"github.com/vpatov/justpoker-sub000/logging"
	"github.com/vpatov/justpoker-sub000/nats"
	"github.com/vpatov/justpoker-sub000/rest"
	"github.com/vpatov/justpoker-sub000/util"
)

var delayConfigFile *string
var tableConfigFile *string
var tableID *string
var checkScript *string
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	delayConfigFile = flag.String("delays", "", "YAML file containing pause times")
	tableConfigFile = flag.String("table-config", "", "YAML file with the parameters of a table to open at startup")
	tableID = flag.String("table-id", "", "id of the table opened with -table-config")
	checkScript = flag.String("check-script", "", "validates a game script file and exits")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	logging.SetLevel(logLevel)
	flag.Parse()

	if *checkScript != "" {
		return validateScript(*checkScript)
	}

	delays := game.DefaultDelays()
	if *delayConfigFile != "" {
		var err error
		delays, err = game.ParseDelayConfig(*delayConfigFile)
		if err != nil {
			return errors.Wrap(err, "Error while parsing delay config")
		}
	}

	persist, err := newSnapshotStore()
	if err != nil {
		return errors.Wrap(err, "Error while creating snapshot store")
	}

	var observers game.ObserverFactory
	var natsManager *nats.TableManager
	natsURL := util.Env.GetNatsURL()
	if natsURL != "" {
		mainLogger.Info().Msgf("NATS URL: %s", natsURL)
		natsManager, err = nats.NewTableManager(natsURL)
		if err != nil {
			return errors.Wrap(err, "Error creating NATS table manager")
		}
		defer natsManager.Close()
		observers = natsManager.Observers
	} else {
		mainLogger.Warn().Msg("NATS_URL is not set. Tables are reachable through the rest server only")
	}

	tableManager := game.NewManager(persist, delays, observers)
	if natsManager != nil {
		if err := natsManager.Bind(tableManager); err != nil {
			return errors.Wrap(err, "Error subscribing to control subject")
		}
	}

	if *tableConfigFile != "" {
		params, err := game.LoadParameters(*tableConfigFile)
		if err != nil {
			return err
		}
		g, err := tableManager.CreateTable(*tableID, params)
		if err != nil {
			return errors.Wrap(err, "Error opening startup table")
		}
		mainLogger.Info().Str(logging.TableIDKey, g.TableID()).Msg("Startup table is open")
	}

	// run rest server
	chErr := make(chan error, 1)
	go func() {
		chErr <- rest.RunRestServer(tableManager, util.Env.GetRestPort())
	}()

	chSignal := make(chan os.Signal, 1)
	signal.Notify(chSignal, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-chErr:
		return errors.Wrap(err, "Rest server stopped")
	case sig := <-chSignal:
		mainLogger.Info().Msgf("Received %s. Ending tables", sig)
	}
	for _, id := range tableManager.TableIDs() {
		tableManager.EndTable(id)
	}
	return nil
}

func newSnapshotStore() (game.PersistSnapshot, error) {
	switch util.Env.GetPersistMode() {
	case "redis":
		redisURL := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		mainLogger.Info().Msgf("Persisting snapshots to redis at %s", redisURL)
		return game.NewRedisSnapshotStore(redisURL, util.Env.GetRedisPW(), util.Env.GetRedisDB()), nil
	default:
		return game.NewMemorySnapshotStore(util.Env.GetSnapshotLRUSize())
	}
}

func validateScript(file string) error {
	script, err := gamescript.ReadGameScript(file)
	if err != nil {
		return err
	}
	if err := script.Validate(); err != nil {
		return errors.Wrapf(err, "Invalid game script %s", file)
	}
	fmt.Printf("%s: %d seats, %d hands\n", file, len(script.StartingSeats), len(script.Hands))
	return nil
}
