package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance for the key",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	addr := wallet.PublicKeyToAddress(privateKey.PublicKey)

	resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/%s", nodeURL, addr))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var result struct {
		Accounts []struct {
			Account string `json:"account"`
			Balance string `json:"balance"`
			Nonce   uint64 `json:"nonce"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	for _, account := range result.Accounts {
		fmt.Printf("%s balance[%s] nonce[%d]\n", account.Account, account.Balance, account.Nonce)
	}
}
