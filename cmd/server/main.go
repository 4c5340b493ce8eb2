// Command server runs the development auth API used by the multisession CLI.
package main

import (
	"context"

	"github.com/dmitrijs2005/multisession/internal/server"
	"github.com/dmitrijs2005/multisession/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	server.NewApp(cfg).Run(ctx)

}
