package utils

import (
	"github.com/bwmarrin/discordgo"
)

// OptionMap indexes the top-level options of a slash command by name.
func OptionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

// InteractionUser returns the invoking user for guild and DM interactions.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// DisplayName prefers the guild nickname, then the global name, then the username.
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// InvokerName is the display name of the user behind the interaction.
func InvokerName(i *discordgo.InteractionCreate) string {
	return DisplayName(i.Member, InteractionUser(i))
}

// ResolvedUser returns the user an option refers to, with the member data
// Discord resolved for it. The member is nil outside guilds.
func ResolvedUser(i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) (*discordgo.User, *discordgo.Member) {
	if opt == nil {
		return nil, nil
	}
	id, _ := opt.Value.(string)
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return &discordgo.User{ID: id}, nil
	}
	user, ok := resolved.Users[id]
	if !ok {
		user = &discordgo.User{ID: id}
	}
	return user, resolved.Members[id]
}

// ResolvedAttachment returns the attachment an option refers to.
func ResolvedAttachment(i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) *discordgo.MessageAttachment {
	if opt == nil {
		return nil
	}
	id, _ := opt.Value.(string)
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return nil
	}
	return resolved.Attachments[id]
}

// ModalValues collects the text input values of a modal submission by custom ID.
func ModalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
