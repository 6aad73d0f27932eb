// Key ring management subcommands for registering, inspecting, and removing
// the named secrets used by the encrypt/decrypt commands.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dcrodman/bluefin/internal/core"
	"github.com/dcrodman/bluefin/internal/keyring"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Key ring management tools",
}

var keysAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Registers new keys in the key ring",
	Run:   KeysAddCommand,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the keys in the key ring",
	Run:   KeysListCommand,
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes keys from the key ring",
	Run:   KeysDeleteCommand,
}

var (
	SecretHexFlag string
	VerboseFlag   bool
	PermanentFlag bool
)

func loadConfig() *core.Config {
	return core.LoadConfig(ConfigFlag)
}

func initDB(cfg *core.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Database.Engine) {
	case "sqlite":
		dialector = sqlite.Open(cfg.QualifiedPath(cfg.Database.Filename))
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL())
	default:
		fmt.Println("unsupported database engine:", cfg.Database.Engine)
		os.Exit(1)
	}

	db, err := keyring.Initialize(dialector, cfg.Debugging.DatabaseLoggingEnabled)
	if err != nil {
		fmt.Println("error connecting to database:", err.Error())
		os.Exit(1)
	}
	return db
}

// popArg returns the next positional argument if one was provided and
// prompts for it otherwise.
func popArg(args []string, prompt string) (string, []string) {
	if len(args) > 0 {
		return args[0], args[1:]
	}
	fmt.Printf("%s: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text()), args
}

func KeysAddCommand(cmd *cobra.Command, args []string) {
	db := initDB(loadConfig())
	defer keyring.Shutdown(db)

	name, args := popArg(args, "Key name")

	var secret []byte
	if SecretHexFlag != "" {
		var err error
		if secret, err = hex.DecodeString(SecretHexFlag); err != nil {
			fmt.Println("error decoding --secret-hex:", err.Error())
			os.Exit(1)
		}
	} else {
		var secretInput string
		secretInput, _ = popArg(args, "Secret")
		secret = []byte(secretInput)
	}

	if err := keyring.CreateKey(db, &keyring.Key{Name: name, Secret: secret}); err != nil {
		fmt.Println("error creating key:", err.Error())
		os.Exit(1)
	}
	fmt.Println("registered key:", name)
}

func KeysListCommand(cmd *cobra.Command, _ []string) {
	db := initDB(loadConfig())
	defer keyring.Shutdown(db)

	keys, err := keyring.ListKeys(db)
	if err != nil {
		fmt.Println("error listing keys:", err.Error())
		os.Exit(1)
	}

	for _, key := range keys {
		if VerboseFlag {
			fmt.Print(spew.Sdump(key))
		} else {
			fmt.Printf("%s (%d bytes, added %s)\n", key.Name, len(key.Secret), key.CreatedAt.Format("2006-01-02"))
		}
	}
}

func KeysDeleteCommand(cmd *cobra.Command, args []string) {
	db := initDB(loadConfig())
	defer keyring.Shutdown(db)

	name, _ := popArg(args, "Key name")

	key, err := keyring.FindUnscopedKey(db, name)
	if err != nil {
		fmt.Println("error looking up key:", err.Error())
		os.Exit(1)
	}
	if key == nil {
		fmt.Println("no key named:", name)
		os.Exit(1)
	}

	if PermanentFlag {
		err = keyring.PermanentlyDeleteKey(db, key)
	} else {
		err = keyring.DeleteKey(db, key)
	}
	if err != nil {
		fmt.Println("error deleting key:", err.Error())
		os.Exit(1)
	}
	fmt.Println("deleted key:", name)
}
