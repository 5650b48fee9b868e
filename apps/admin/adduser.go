package main

import (
	"context"
	"fmt"

	"github.com/trezcool/wittayakom/core/account"
)

// addUser creates an active admin account
func (cli *commandLine) addUser(na account.NewAccount) error {
	if err := na.Validate(cli.validate); err != nil {
		return err
	}
	acc, err := cli.accSvc.Create(context.Background(), na)
	if err != nil {
		return err
	}
	fmt.Printf("account %s created\n", acc.ID)
	return nil
}
