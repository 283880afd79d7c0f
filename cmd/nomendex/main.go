package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/firstloop/nomendex"
)

const (
	appName    = "nomendex"
	appVersion = "0.1.0"
)

// getXDGDataHome determines the XDG_DATA_HOME directory.
func getXDGDataHome() (string, error) {
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		xdgDataHome = filepath.Join(homeDir, ".local", "share")
	}

	return xdgDataHome, nil
}

// getDataDirectory determines the data directory using a tiered approach:
// 1. The command-line flag (-data) takes the highest precedence.
// 2. Environment variable NOMENDEX_DATA_DIR if a flag is not set.
// 3. XDG_DATA_HOME/nomendex or $HOME/.local/share/nomendex as fallback.
func getDataDirectory(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if envDir := os.Getenv("NOMENDEX_DATA_DIR"); envDir != "" {
		return envDir, nil
	}

	xdgDataHome, err := getXDGDataHome()
	if err != nil {
		return "", fmt.Errorf("unable to determine XDG_DATA_HOME: %w", err)
	}

	return filepath.Join(xdgDataHome, appName), nil
}

// getKeysDirectory determines the keys directory: flag, then NOMENDEX_KEYS_DIR, then <data>/keys.
func getKeysDirectory(flagValue, dataDir string) string {
	if flagValue != "" {
		return flagValue
	}

	if keysDir := os.Getenv("NOMENDEX_KEYS_DIR"); keysDir != "" {
		return keysDir
	}

	return filepath.Join(dataDir, "keys")
}

// resolveFile returns the flag value, or the environment variable if the flag is not set.
func resolveFile(flagValue, envVar string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envVar)
}

// getDefaultIdentity returns the key.txt identity file in the keys directory if it exists.
func getDefaultIdentity(keysDir string) string {
	identitiesFile := filepath.Join(keysDir, nomendex.IdentityFileName)
	if _, err := os.Stat(identitiesFile); err != nil {
		return ""
	}
	return identitiesFile
}

func main() {
	var port int
	var addr string
	var dataDirFlag string
	var keysDirFlag string
	var identitiesFile string
	var generateKeys bool
	var showVersion bool

	// Short and long names share a variable, so either form sets the same value.
	flagSet := flag.NewFlagSet(appName, flag.ExitOnError)
	flagSet.StringVar(&dataDirFlag, "data", "", "Directory holding notes and todos.")
	flagSet.StringVar(&dataDirFlag, "d", "", "Directory holding notes and todos.")
	flagSet.StringVar(&keysDirFlag, "keys-dir", "", "Directory for age keys.")
	flagSet.StringVar(&keysDirFlag, "k", "", "Directory for age keys.")
	flagSet.StringVar(&identitiesFile, "identity", "", "Age identity file used to read encrypted notes.")
	flagSet.StringVar(&identitiesFile, "i", "", "Age identity file used to read encrypted notes.")
	flagSet.BoolVar(&generateKeys, "generate-keys", false, "Generate key.txt and key.pub in the keys directory and exit.")
	flagSet.BoolVar(&generateKeys, "g", false, "Generate key.txt and key.pub in the keys directory and exit.")

	flagSet.IntVar(&port, "port", 8765, "Port to run the sidecar on.")
	flagSet.IntVar(&port, "p", 8765, "Port to run the sidecar on.")
	flagSet.StringVar(&addr, "addr", "localhost", "Address to bind the sidecar to.")
	flagSet.StringVar(&addr, "a", "localhost", "Address to bind the sidecar to.")

	flagSet.BoolVar(&showVersion, "version", false, "Show application version.")
	flagSet.BoolVar(&showVersion, "v", false, "Show application version.")

	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(flagSet.Output(), "%s - local search sidecar for notes and todos\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "Options:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		log.Fatal(fmt.Errorf("error parsing flags: %w", err))
	}

	if showVersion {
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	}

	dataDir, err := getDataDirectory(dataDirFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("error determining data directory: %w", err))
	}

	keysDir := getKeysDirectory(keysDirFlag, dataDir)

	if generateKeys {
		publicKey, publicPath, privatePath, err := nomendex.GenerateNewEncryptionPair(keysDir)
		if err != nil {
			log.Fatal(fmt.Errorf("error generating new encryption identity: %w", err))
		}

		fmt.Printf("Generated new encryption identity:\n")
		fmt.Printf("  Public key: %s\n", publicKey)
		fmt.Printf("  Public key file: %s\n", publicPath)
		fmt.Printf("  Private key file: %s\n", privatePath)
		fmt.Printf("\n%s picks up %s from the keys directory automatically.\n", appName, nomendex.IdentityFileName)
		fmt.Printf("To encrypt a note:\n")
		fmt.Printf("  age -R %s -o note.md.age note.md\n", publicPath)
		return
	}

	if err := SetupLogging(DefaultLogConfig(dataDir)); err != nil {
		log.Printf("Error setting up log file, logging to stdout only: %v", err)
	}

	encryptionManager := nomendex.NewEncryptionManager()
	identitiesFile = resolveFile(identitiesFile, "NOMENDEX_IDENTITIES_FILE")
	if identitiesFile == "" {
		identitiesFile = getDefaultIdentity(keysDir)
	}

	if err := encryptionManager.LoadIdentities(identitiesFile); err != nil {
		log.Printf("Encrypted notes disabled: %v", err)
	} else {
		log.Printf("Encrypted notes enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := NewServer(ctx, dataDir, WithEncryptionManager(encryptionManager))
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing server: %w", err))
	}

	if err := server.Start(addr, port); err != nil {
		log.Fatal(err)
	}
}
