package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ConfigFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "bluefin",
		Short: "Bluefin block cipher toolkit",
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigFlag, "config", "c", "", "Path to the directory containing the config file")

	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysDeleteCmd)
	keysAddCmd.Flags().StringVar(&SecretHexFlag, "secret-hex", "", "Secret as a hex string (prompted for when omitted)")
	keysListCmd.Flags().BoolVarP(&VerboseFlag, "verbose", "v", false, "Dump the full key records")
	keysDeleteCmd.Flags().BoolVar(&PermanentFlag, "permanent", false, "Permanently delete the key (as opposed to a soft delete)")

	for _, cmd := range []*cobra.Command{encryptCmd, decryptCmd} {
		cmd.Flags().StringVarP(&KeyFlag, "key", "k", "", "Name of the key in the key ring")
		cmd.Flags().StringVarP(&InFlag, "in", "i", "", "Input file (in addition to any positional arguments)")
		cmd.Flags().StringVarP(&OutFlag, "out", "o", "", "Output file (single input only; defaults to the input plus/minus the .bfn suffix)")
		if err := cmd.MarkFlagRequired("key"); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
	}
}
