package main

import (
	"strconv"

	"github.com/zeebo/clingy"

	"mojapay.io/mobile-money/pkg/config"
)

func stringFlag(params clingy.Parameters, name, desc, def string) string {
	return params.Flag(name, desc, def).(string)
}

func toggleFlag(params clingy.Parameters, name, desc string, def bool) bool {
	return params.Flag(name, desc, def, clingy.Transform(strconv.ParseBool), clingy.Boolean).(bool)
}

func stringArg(params clingy.Parameters, name, desc string) string {
	return params.Arg(name, desc).(string)
}

func optStringArg(params clingy.Parameters, name, desc string) *string {
	return params.Arg(name, desc, clingy.Optional).(*string)
}

func configFlag(params clingy.Parameters) string {
	return stringFlag(params, "config", "The configuration file", config.DefaultPath)
}
