package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// configErr holds a failure to read an explicitly requested config file;
// it is reported once the command runs.
var configErr error

// settings are the effective run options after merging flags, environment
// and config file.
type settings struct {
	Format     string
	DPI        int
	Quality    int
	Renderer   string
	Background string
	KeepDPI    bool
	Report     string
	Verbose    bool
	NoColor    bool
}

func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convertany")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convertany"))
		}
	}

	viper.SetEnvPrefix("CONVERTANY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		configErr = err
		return
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = err
		}
	}
}

func loadSettings() settings {
	return settings{
		Format:     viper.GetString("format"),
		DPI:        viper.GetInt("dpi"),
		Quality:    viper.GetInt("quality"),
		Renderer:   viper.GetString("renderer"),
		Background: viper.GetString("background"),
		KeepDPI:    viper.GetBool("keep-dpi"),
		Report:     viper.GetString("report"),
		Verbose:    viper.GetBool("verbose"),
		NoColor:    viper.GetBool("no-color"),
	}
}
