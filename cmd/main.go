package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batchlinehq/batchline"
	"github.com/batchlinehq/batchline/config"
	"github.com/batchlinehq/batchline/database"
	"github.com/batchlinehq/batchline/internal/notification"
)

// Batchline represents the CLI application, encapsulating the root Cobra command.
type Batchline struct {
	cmd *cobra.Command
}

// batchlineInstance holds the Batchline instance and its configuration.
type batchlineInstance struct {
	batchline *batchline.Batchline
	cnf       *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Batchline instance
// before running any command.
func preRun(app *batchlineInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("batchline.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newBatchline, err := setupBatchline(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.batchline = newBatchline
		app.cnf = cnf

		return nil
	}
}

// setupBatchline creates and initializes a new Batchline instance based on the
// provided configuration.
func setupBatchline(cfg *config.Configuration) (*batchline.Batchline, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return &batchline.Batchline{}, fmt.Errorf("error getting datasource: %v", err)
	}

	newBatchline, err := batchline.NewBatchline(db)
	if err != nil {
		return &batchline.Batchline{}, fmt.Errorf("error creating batchline: %v", err)
	}
	return newBatchline, nil
}

// NewCLI creates the command-line interface for the Batchline application.
func NewCLI() *Batchline {
	var configFile string
	b := &batchlineInstance{}

	var rootCmd = &cobra.Command{
		Use:   "batchline",
		Short: "Reactor production tracking",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./batchline.json", "Configuration file for batchline")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &Batchline{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during
// execution.
func (w Batchline) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
