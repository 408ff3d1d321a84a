// asr-proxy serves an OpenAI-compatible speech-to-text API backed by
// whisper-asr-webservice.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/asr-proxy/config"
	"github.com/kbukum/asr-proxy/version"
)

type flags struct {
	configFile string
	envFile    string
	port       int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	serve := newServeCmd(f)

	root := &cobra.Command{
		Use:   config.ServiceName,
		Short: "OpenAI-compatible transcription proxy for whisper-asr-webservice",
		Long: `asr-proxy accepts POST /v1/audio/transcriptions in the OpenAI format and
forwards the audio to whisper-asr-webservice.

Environment:
  WHISPER_URL      backend base URL (default http://localhost:9000)
  WHISPER_TIMEOUT  backend timeout in seconds, 0 for none
  DEBUG            enable debug logging`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "Path to config file (default: config.yml)")
	root.PersistentFlags().StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env)")
	root.PersistentFlags().IntVarP(&f.port, "port", "p", 0, "Listen port (default 9001)")

	root.AddCommand(serve)
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.ServiceName, version.String())
		},
	}
}

func (f *flags) loaderOptions() []config.LoaderOption {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	return opts
}
