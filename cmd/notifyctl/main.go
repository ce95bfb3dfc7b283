package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "notifyctl",
	Short: "Operator CLI for the NimbaPay notification dispatcher",
	Long:  `notifyctl sends test fan-outs and inspects delivery failures against a running notifier service.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.notifyctl.yaml)")
	rootCmd.PersistentFlags().String("server", "http://localhost:8086", "base URL of the notifier service")
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".notifyctl")
	}

	viper.SetEnvPrefix("NOTIFYCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
