package common

import (
	"github.com/bwmarrin/discordgo"
)

// Options indexes the top-level options of a slash command by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// CommandOptions returns the options of an application command interaction
func CommandOptions(i *discordgo.InteractionCreate) Options {
	opts := make(Options)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

// String returns a string option, or "" when absent
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// StringPtr returns a string option, or nil when absent
func (o Options) StringPtr(name string) *string {
	opt, ok := o[name]
	if !ok {
		return nil
	}
	v := opt.StringValue()
	return &v
}

// Int returns an integer option, or def when absent
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return def
}

// Bool returns a boolean option, or false when absent
func (o Options) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// User returns a user option, or nil when absent
func (o Options) User(s *discordgo.Session, name string) *discordgo.User {
	if opt, ok := o[name]; ok {
		return opt.UserValue(s)
	}
	return nil
}
