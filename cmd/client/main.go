package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cryptguard/cryptguard/internal/client"
	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("cryptguard-client")

	// Credential flags must be registered before the config layer runs
	// flag.Parse on the shared command line, or they are rejected as unknown.
	creds := registerCredentialFlags(flag.CommandLine)

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	resolvePasswordFromEnv(creds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx, *creds); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

// registerCredentialFlags declares the login credential flags on fs. The
// returned Credentials is populated once fs is parsed.
func registerCredentialFlags(fs *flag.FlagSet) *client.Credentials {
	creds := &client.Credentials{}

	fs.StringVar(&creds.Email, "email", "", "account email for password login")
	fs.StringVar(&creds.Password, "password", "", "account password (prefer CRYPTGUARD_PASSWORD)")
	fs.StringVar(&creds.WalletAddress, "wallet", "", "wallet address for signature login")
	fs.StringVar(&creds.WalletSignature, "signature", "", "wallet signature over the challenge message")

	return creds
}

// resolvePasswordFromEnv falls back to CRYPTGUARD_PASSWORD so the password
// stays out of shell history and process listings.
func resolvePasswordFromEnv(creds *client.Credentials) {
	if creds.Password == "" {
		creds.Password = os.Getenv("CRYPTGUARD_PASSWORD")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
