package commands

import (
	"fmt"
	"github.com/rigochain/rigo-vote/libs"
	"github.com/rigochain/rigo-vote/types/bytes"
	"github.com/rigochain/rigo-vote/types/crypto"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/json"
	"os"
	"path/filepath"
	"strings"
)

var (
	wkPass     string
	changePass bool
)

func AddWalletKeyCmdFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&wkPass,
		"passphrase",
		"p",
		"",
		"passphrase to decrypt a private key in wallet key files",
	)
	cmd.Flags().BoolVarP(
		&changePass,
		"change-passphrase",
		"c",
		false,
		"change the passphrase of a wallet key file")
}

// NewWalletKeyCmd returns the command that shows the wallet keys
// created by `init` or changes their passphrase.
func NewWalletKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallet-key [path...]",
		Aliases: []string{"wallet_key"},
		Short:   "Wallet key file management",
		RunE:    handleWalletKey,
		PreRun:  deprecateSnakeCase,
	}

	AddWalletKeyCmdFlag(cmd)
	return cmd
}

func handleWalletKey(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{rootConfig.WalletKeyDir()}
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "~") {
			if home, err := os.UserHomeDir(); err != nil {
				return err
			} else {
				arg = strings.Replace(arg, "~", home, 1)
			}
		}
		arg = libs.AbsPath(arg)
		fileInfo, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if changePass {
			if err := resetPassphrase(arg); err != nil {
				return err
			}
		} else if fileInfo.IsDir() {
			if err := showWalletKeyDir(arg); err != nil {
				return err
			}
		} else {
			if err := showWalletKeyFile(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func showWalletKeyDir(path string) error {
	return filepath.WalkDir(path, func(entry string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := showWalletKeyFile(entry); err != nil {
			return err
		}
		fmt.Println("---")
		return nil
	})
}

func readPassphrase(prompt string) ([]byte, error) {
	if wkPass != "" {
		return []byte(wkPass), nil
	}
	return libs.ReadCredential(prompt)
}

func showWalletKeyFile(path string) error {
	wk, err := crypto.OpenWalletKeyFile(path)
	if err != nil {
		return err
	}

	s, err := readPassphrase(fmt.Sprintf("Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	if err := wk.Unlock(s); err != nil {
		return err
	}
	defer wk.Lock()

	tmp := &struct {
		Address bytes.HexBytes `json:"address"`
		PrvKey  bytes.HexBytes `json:"prvKey"`
		PubKey  bytes.HexBytes `json:"pubKey"`
	}{
		Address: wk.Address,
		PrvKey:  wk.PrvKey(),
		PubKey:  wk.PubKey(),
	}
	bz, err := json.MarshalIndent(tmp, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func resetPassphrase(path string) error {
	wk, err := crypto.OpenWalletKeyFile(path)
	if err != nil {
		return err
	}

	pass0, err := libs.ReadCredential(fmt.Sprintf("Current Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer libs.ClearCredential(pass0)
	if err := wk.Unlock(pass0); err != nil {
		return err
	}
	defer wk.Lock()

	pass1, err := libs.ReadCredential(fmt.Sprintf("New Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer libs.ClearCredential(pass1)

	nwk, err := crypto.NewWalletKey(wk.PrvKey(), pass1)
	if err != nil {
		return err
	}
	return nwk.SaveFile(path)
}
