package commands

import (
	"github.com/bwmarrin/discordgo"

	"werkstatt-bot/commands/defs"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Abmelden,
		defs.Abmeldungen,
		defs.AbmeldungLoeschen,
		defs.Sanktion,
		defs.Sanktionen,
		defs.SanktionAufheben,
		defs.Tuningchip,
		defs.Stance,
		defs.Xenon,
		defs.Eigentuning,
		defs.UserInfo,
		defs.SystemInfo,
		defs.Panel,
		defs.TuningchipPanel,
		defs.StancePanel,
		defs.XenonPanel,
	}
}
