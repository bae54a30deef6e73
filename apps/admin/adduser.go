package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/user"
)

type newUserArgs struct {
	schoolID, name, uname, email, pwd string
	roles                             []string
}

// addUser updates or creates a user.User
func (cli *commandLine) addUser(args newUserArgs) error {
	ctx := context.Background()
	uname := core.CleanString(args.uname, true /* lower */)
	email := core.CleanString(args.email, true /* lower */)

	for _, role := range args.roles {
		if !isRole(role) {
			return fmt.Errorf("unknown role %q", role)
		}
	}

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: lookup})
	exists := err == nil
	if err != nil && !core.IsNotFound(err) {
		return err
	}

	now := time.Now().UTC()
	if !exists {
		usr = user.User{Username: uname, CreatedAt: now}
	}
	usr.SchoolID = core.CleanString(args.schoolID)
	usr.Email = email
	if name := core.CleanString(args.name); name != "" {
		usr.Name = name
	}
	if args.roles != nil {
		usr.Roles = args.roles
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(args.pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return err
}

func isRole(role string) bool {
	for _, r := range user.AllRoles {
		if role == r {
			return true
		}
	}
	return false
}
