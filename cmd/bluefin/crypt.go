// File encryption subcommands. These layer PKCS#7 padding over the strict
// ECB contract exposed by the cipher so that arbitrary-length files can be
// transformed; the library itself rejects unaligned input.
package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/dcrodman/bluefin"
	"github.com/dcrodman/bluefin/internal/core"
	"github.com/dcrodman/bluefin/internal/keyring"
	"github.com/dcrodman/bluefin/internal/padding"
)

// Suffix appended to encrypted files when no explicit output path is given.
const encryptedSuffix = ".bfn"

var encryptCmd = &cobra.Command{
	Use:   "encrypt [files]",
	Short: "Encrypts files with a key from the key ring (ECB + PKCS#7)",
	Run:   EncryptCommand,
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [files]",
	Short: "Decrypts files previously encrypted by this tool",
	Run:   DecryptCommand,
}

var (
	KeyFlag string
	InFlag  string
	OutFlag string
)

// The schedule cache is shared by every transform in the process so that a
// batch of files against the same named key derives its schedule once.
var (
	scheduleCache     *keyring.ScheduleCache
	scheduleCacheOnce sync.Once
)

func getScheduleCache(cfg *core.Config) *keyring.ScheduleCache {
	scheduleCacheOnce.Do(func() {
		scheduleCache = keyring.NewScheduleCache(time.Duration(cfg.Cache.ScheduleTTL) * time.Second)
	})
	return scheduleCache
}

func EncryptCommand(cmd *cobra.Command, args []string) {
	runTransform(args, false)
}

func DecryptCommand(cmd *cobra.Command, args []string) {
	runTransform(args, true)
}

func runTransform(args []string, decrypt bool) {
	cfg := loadConfig()
	logger, err := core.NewLogger(cfg)
	if err != nil {
		fmt.Println("error initializing logger:", err.Error())
		os.Exit(1)
	}

	inputs := args
	if InFlag != "" {
		inputs = append([]string{InFlag}, args...)
	}
	if len(inputs) == 0 {
		fmt.Println("no input files; pass them as arguments or with --in")
		os.Exit(1)
	}
	if OutFlag != "" && len(inputs) > 1 {
		fmt.Println("--out can only be used with a single input file")
		os.Exit(1)
	}

	db := initDB(cfg)
	defer keyring.Shutdown(db)

	if err := transformFiles(db, getScheduleCache(cfg), logger, KeyFlag, inputs, OutFlag, decrypt); err != nil {
		fmt.Println("error:", err.Error())
		os.Exit(1)
	}
}

// transformFiles encrypts or decrypts each input in order. The named key's
// schedule is looked up through the shared cache per file, so only the first
// file in a batch pays the derivation cost.
func transformFiles(db *gorm.DB, cache *keyring.ScheduleCache, logger *logrus.Logger, keyName string, inputs []string, out string, decrypt bool) error {
	for _, in := range inputs {
		cipher, err := keyring.DeriveCipher(db, cache, keyName)
		if err != nil {
			return fmt.Errorf("deriving cipher: %w", err)
		}

		data, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}

		var result []byte
		if decrypt {
			padded, err := cipher.ECBDecrypt(data)
			if err != nil {
				return fmt.Errorf("decrypting %s: %w", in, err)
			}
			// Most likely the wrong key; the padding check is the only
			// integrity signal ECB gives us.
			if result, err = padding.Unpad(padded); err != nil {
				return fmt.Errorf("stripping padding from %s: %w", in, err)
			}
		} else {
			if result, err = cipher.ECBEncrypt(padding.Pad(data, bluefin.BlockSize)); err != nil {
				return fmt.Errorf("encrypting %s: %w", in, err)
			}
		}

		dest := out
		if dest == "" {
			dest = outputPath(in, decrypt)
		}
		if err := os.WriteFile(dest, result, 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		verb := "encrypted"
		if decrypt {
			verb = "decrypted"
		}
		logger.Infof("%s %d bytes from %s to %s with key %s", verb, len(data), in, dest, keyName)
	}
	return nil
}

// outputPath maps an input filename to its default output filename:
// encryption appends the suffix, decryption strips it when present.
func outputPath(in string, decrypt bool) string {
	if !decrypt {
		return in + encryptedSuffix
	}
	if strings.HasSuffix(in, encryptedSuffix) {
		return strings.TrimSuffix(in, encryptedSuffix)
	}
	return in + ".out"
}
