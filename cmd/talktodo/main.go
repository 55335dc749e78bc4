package main

import (
	"os"

	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/talktodo/cmd/talktodo/serve"
	versioncmder "github.com/papercomputeco/talktodo/cmd/talktodo/version"
)

const rootLongDesc string = `TalkToDo is a small web chat that forwards each message, together with
the conversation so far, to an OpenRouter chat completion model.

Configuration is read from the environment (or a .env file):
  OPENROUTER_API_KEY   required API credential
  OPENROUTER_MODEL     model identifier (optional)`

func main() {
	cmd := &cobra.Command{
		Use:           "talktodo",
		Short:         "Web chat backed by an OpenRouter model",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
