// Package cli wires the covidboard commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"covidboard/internal/config"
	"covidboard/internal/logging"
	"covidboard/ui/tui"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     config.Config
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covidboard",
	Short: "French COVID-19 key figures in your terminal.",
	Long: `covidboard charts the opencovid19-fr key figures: hospital and nursing-home
counters, cumulative curves and daily variations, nationwide or per location.

Without a subcommand it starts the interactive dashboard.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runDashboard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.covidboard.yaml)")
	pf.StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error")
	pf.String("db", "", "DuckDB file to read reports from (default: download the dataset)")
	pf.String("data-url", "", "URL of the chiffres-cles.json dataset")
	pf.StringP("date", "d", "", "Report date, YYYY-MM-DD (default: latest published)")
	pf.String("location", "", "Location code such as DEP-75 or REG-11 (default: France)")

	for key, flag := range map[string]string{
		"log_level": "loglevel",
		"db_path":   "db",
		"data_url":  "data-url",
		"date":      "date",
		"location":  "location",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".covidboard")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("COVIDBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}

	config.SetDefaults(viper.GetViper())
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	if err := logging.SetLevel(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if cfg.LogFile != "" {
		closer, err := logging.ToFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	src, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	logging.Log.WithFields(logrus.Fields{
		"db":       cfg.DBPath,
		"date":     cfg.Date,
		"location": cfg.Location,
	}).Info("starting dashboard")
	return tui.Start(src.Source, cfg)
}
