package defs

import (
	"github.com/bwmarrin/discordgo"

	"werkstatt-bot/model"
)

var (
	minFine             = 0.0
	moderatePermissions = int64(discordgo.PermissionModerateMembers)
)

var sanctionKindLabels = map[model.SanctionKind]string{
	model.SanctionSuspension1Day:  "Suspendierung (1 Tag)",
	model.SanctionSuspension2Days: "Suspendierung (2 Tage)",
}

func sanctionKindChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.SanctionKinds))
	for _, kind := range model.SanctionKinds {
		name, ok := sanctionKindLabels[kind]
		if !ok {
			name = string(kind)
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: string(kind)})
	}
	return choices
}

var Sanktion = &discordgo.ApplicationCommand{
	Name:                     "sanktion",
	Description:              "Issue a sanction to a member",
	DefaultMemberPermissions: &moderatePermissions,
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Erteile eine Sanktion an einen Benutzer",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "benutzer",
			Description: "Der zu sanktionierende Benutzer",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "typ",
			Description: "Art der Sanktion",
			Required:    true,
			Choices:     sanctionKindChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "grund",
			Description: "Grund fuer die Sanktion",
			Required:    true,
			MaxLength:   1000,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "geldstrafe",
			Description: "Hoehe der Geldstrafe in $",
			Required:    true,
			MinValue:    &minFine,
		},
	},
}

var Sanktionen = &discordgo.ApplicationCommand{
	Name:        "sanktionen",
	Description: "Show sanctions",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Zeige Sanktionen an",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "benutzer",
			Description: "Sanktionen eines bestimmten Benutzers anzeigen",
			Required:    false,
		},
	},
}

var SanktionAufheben = &discordgo.ApplicationCommand{
	Name:                     "sanktion-aufheben",
	Description:              "Lift a sanction",
	DefaultMemberPermissions: &moderatePermissions,
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Hebe eine Sanktion auf",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID der Sanktion",
			Required:    true,
		},
	},
}
