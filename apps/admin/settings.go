package main

import (
	"context"
	"fmt"
	"sort"
)

// refreshSettings reloads the settings from the database, which also rewrites the snapshot file.
func (cli *commandLine) refreshSettings() error {
	s, err := cli.settings.Refresh(context.Background())
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %q\n", k, s.Values[k])
	}
	fmt.Printf("%d social links\n", len(s.SocialLinks))
	return nil
}
