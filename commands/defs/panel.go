package defs

import (
	"github.com/bwmarrin/discordgo"

	"werkstatt-bot/model"
)

var adminPermissions = int64(discordgo.PermissionAdministrator)

// PanelCommandTopics maps each panel command to the topic it publishes.
var PanelCommandTopics = map[string]model.Topic{
	"panel":            model.TopicAbsence,
	"tuningchip-panel": model.TopicTuningChip,
	"stance-panel":     model.TopicStance,
	"xenon-panel":      model.TopicXenon,
}

func panelCommand(name string, topic model.Topic) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     name,
		Description:              "Create or refresh the " + string(topic) + " panel in this channel",
		DefaultMemberPermissions: &adminPermissions,
		DescriptionLocalizations: &map[discordgo.Locale]string{
			discordgo.German: "Erstelle/Aktualisiere das " + topic.Label() + "-Panel im aktuellen Kanal",
		},
	}
}

var (
	Panel           = panelCommand("panel", model.TopicAbsence)
	TuningchipPanel = panelCommand("tuningchip-panel", model.TopicTuningChip)
	StancePanel     = panelCommand("stance-panel", model.TopicStance)
	XenonPanel      = panelCommand("xenon-panel", model.TopicXenon)
)

var UserInfo = &discordgo.ApplicationCommand{
	Name:        "userinfo",
	Description: "Show information about a member",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Zeige Informationen ueber einen Benutzer",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "benutzer",
			Description: "Der Benutzer",
			Required:    false,
		},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:                     "systeminfo",
	Description:              "Display bot and system status information",
	DefaultMemberPermissions: &adminPermissions,
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Zeige Bot- und Systeminformationen",
	},
}
