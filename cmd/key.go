package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/topomon/secure"
	"github.com/encodeous/topomon/state"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Generates a new RSA keypair",
	Long:  `Prints a PKCS#8 private key on stdout and the matching public key on stderr.`,
	Run: func(cmd *cobra.Command, args []string) {
		bits, _ := cmd.Flags().GetInt("bits")
		kp, err := secure.GenerateKeyPair(bits)
		if err != nil {
			panic(err)
		}
		privPEM, pubPEM, err := kp.MarshalPEM()
		if err != nil {
			panic(err)
		}
		fmt.Print(string(privPEM))
		_, err = fmt.Fprint(os.Stderr, string(pubPEM))
		if err != nil {
			panic(err)
		}
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(keyCmd)

	keyCmd.Flags().Int("bits", state.DefaultKeyBits, "RSA modulus size")
}
