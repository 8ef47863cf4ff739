package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "webmention"
	configPath     = "./.tmp"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is where the status and links commands find the server.
type Context struct {
	GrpcAddr  string `json:"grpc_addr" mapstructure:"grpc_addr"`
	RedisAddr string `json:"redis_addr" mapstructure:"redis_addr"`
}

func defaultContext() Context {
	return Context{GrpcAddr: "localhost:4000", RedisAddr: "localhost:6379"}
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var grpcAddr string
	var redisAddr string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if grpcAddr == "" && redisAddr == "" {
				color.Red(`missing: --grpc or --redis`)
				return
			}

			ctx := readContext()
			if grpcAddr != "" {
				ctx.GrpcAddr = grpcAddr
			}
			if redisAddr != "" {
				ctx.RedisAddr = redisAddr
			}

			if err := writeContext(ctx); err != nil {
				fmt.Println("error writing config file: ", err)
			} else {
				fmt.Println("context saved")
			}
		},
	}

	command.Flags().StringVar(&grpcAddr, "grpc", "", "grpc address of the server")
	command.Flags().StringVar(&redisAddr, "redis", "", "redis address holding the statuses")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			printField("grpc", ctx.GrpcAddr)
			printField("redis", ctx.RedisAddr)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeContext(defaultContext()); err != nil {
				fmt.Println("error writing config file: ", err)
			}
		},
	}

	return command
}

func contextConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(configPath)
	v.SetConfigType("yml")
	return v
}

func writeContext(ctx Context) error {
	if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
		return err
	}

	v := contextConfig()
	v.Set("context", map[string]string{
		"grpc_addr":  ctx.GrpcAddr,
		"redis_addr": ctx.RedisAddr,
	})

	return v.WriteConfigAs(configPath + "/" + configFileName + ".yml")
}

func readContext() Context {
	ctx := defaultContext()

	v := contextConfig()
	if err := v.ReadInConfig(); err != nil {
		return ctx
	}

	if err := v.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}
