// Package tuning serves the documentation panels, their submission flow and
// the one-shot documentation commands.
package tuning

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/flow"
	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

const (
	fieldCustomer    = "kunde"
	fieldPlate       = "kennzeichen"
	fieldDescription = "beschreibung"
	fieldColor       = "farbe"
	fieldImage       = "bild"
)

// Documenter persists and posts documentations.
type Documenter interface {
	Document(ctx context.Context, channelID string, doc *model.TuningDocumentation) (*discordgo.Message, error)
	Eigentuning(ctx context.Context, channelID string, rec *model.EigentuningRecord) (*discordgo.Message, error)
}

// Flows starts and steers interactive submissions.
type Flows interface {
	Begin(ctx context.Context, sub *flow.Submission) error
	HandleChoice(token, userID string, attach bool) bool
}

type Handler struct {
	Docs   Documenter
	Flows  Flows
	Config func() *model.Config
	Logger *zap.Logger
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func textInput(id, label string, style discordgo.TextInputStyle, maxLength int, placeholder string) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:    id,
			Label:       label,
			Style:       style,
			Placeholder: placeholder,
			Required:    true,
			MaxLength:   maxLength,
		},
	}}
}

// Modal builds the documentation form of topic.
func Modal(topic model.Topic) *discordgo.InteractionResponseData {
	components := []discordgo.MessageComponent{
		textInput(fieldCustomer, "Kunde", discordgo.TextInputShort, 100, "Name des Kunden"),
		textInput(fieldPlate, "Kennzeichen", discordgo.TextInputShort, 8, "z.B. LS-AB12"),
	}
	switch topic {
	case model.TopicTuningChip:
		components = append(components,
			textInput(fieldDescription, "Durchgefuehrte Aenderungen", discordgo.TextInputParagraph, 1000, "Was wurde veraendert?"))
	case model.TopicXenon:
		components = append(components,
			textInput(fieldColor, "Xenon-Farbe", discordgo.TextInputShort, 50, "z.B. 6000K weiss"))
	}
	return &discordgo.InteractionResponseData{
		CustomID:   model.DocumentationModalID(topic),
		Title:      topic.Label() + " dokumentieren",
		Components: components,
	}
}

// HandleOpenModal answers a documentation panel button with the form.
func (h *Handler) HandleOpenModal(s model.Session, i *discordgo.InteractionCreate) {
	topic, ok := model.TopicFromCustomID(i.MessageComponentData().CustomID, model.DocumentationButtonPrefix)
	if !ok {
		utils.SendErrorResponse(s, i, "Unbekannte Dokumentationsart.")
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: Modal(topic),
	})
	if err != nil {
		h.logger().Warn("error opening documentation modal", zap.String("topic", string(topic)), zap.Error(err))
	}
}

// HandleModalSubmit persists the form and starts the image choice window.
func (h *Handler) HandleModalSubmit(s model.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	topic, ok := model.TopicFromCustomID(data.CustomID, model.DocumentationModalPrefix)
	if !ok {
		utils.SendErrorResponse(s, i, "Unbekannte Dokumentationsart.")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		h.logger().Warn("error deferring documentation modal", zap.Error(err))
		return
	}

	values := utils.ModalValues(data)
	user := utils.InteractionUser(i)
	sub := &flow.Submission{
		UserID:    user.ID,
		ChannelID: i.ChannelID,
		Topic:     topic,
		Doc: &model.TuningDocumentation{
			Topic:        topic,
			CustomerName: values[fieldCustomer],
			Plate:        values[fieldPlate],
			Description:  values[fieldDescription],
			Color:        values[fieldColor],
			AuthorID:     user.ID,
			AuthorName:   utils.InvokerName(i),
		},
		Interaction: i.Interaction,
	}
	if err := h.Flows.Begin(context.Background(), sub); err != nil {
		utils.RespondError(s, i, err, true, h.logger())
	}
}

// HandleChoice routes the attach and skip buttons to their flow.
func (h *Handler) HandleChoice(s model.Session, i *discordgo.InteractionCreate) {
	token, attach, ok := flow.ParseChoiceButtonID(i.MessageComponentData().CustomID)
	if ok && h.Flows.HandleChoice(token, utils.InteractionUser(i).ID, attach) {
		if err := utils.DeferUpdate(s, i); err != nil {
			h.logger().Debug("error acknowledging image choice", zap.Error(err))
		}
		return
	}
	utils.SendErrorResponse(s, i, "Diese Auswahl ist abgelaufen oder gehoert nicht zu deiner Dokumentation.")
}

// HandleDocumentCommand serves /tuningchip, /stance and /xenon.
func (h *Handler) HandleDocumentCommand(s model.Session, i *discordgo.InteractionCreate, topic model.Topic) {
	opts := utils.OptionMap(i)
	attachment := utils.ResolvedAttachment(i, opts[fieldImage])
	if attachment == nil {
		utils.SendErrorResponse(s, i, "Bitte haenge ein Bild an.")
		return
	}
	user := utils.InteractionUser(i)
	url := attachment.URL
	doc := &model.TuningDocumentation{
		Topic:      topic,
		ImageURL:   &url,
		AuthorID:   user.ID,
		AuthorName: utils.InvokerName(i),
	}
	if opt, ok := opts[fieldCustomer]; ok {
		doc.CustomerName = opt.StringValue()
	}
	if opt, ok := opts[fieldPlate]; ok {
		doc.Plate = opt.StringValue()
	}
	if opt, ok := opts[fieldDescription]; ok {
		doc.Description = opt.StringValue()
	}
	if opt, ok := opts[fieldColor]; ok {
		doc.Color = opt.StringValue()
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		h.logger().Warn("error deferring documentation command", zap.Error(err))
		return
	}
	channelID := h.Config().Channels.ForTopic(topic)
	if channelID == "" {
		channelID = i.ChannelID
	}
	if _, err := h.Docs.Document(context.Background(), channelID, doc); err != nil {
		utils.RespondError(s, i, err, true, h.logger())
		return
	}
	if err := utils.SendFollowUp(s, i.Interaction, "Dokumentation wurde erfasst!"); err != nil {
		h.logger().Warn("error confirming documentation", zap.Error(err))
	}
}

// HandleEigentuningCommand serves /eigentuning.
func (h *Handler) HandleEigentuningCommand(s model.Session, i *discordgo.InteractionCreate) {
	opts := utils.OptionMap(i)
	user := utils.InteractionUser(i)
	rec := &model.EigentuningRecord{
		AuthorID:   user.ID,
		AuthorName: utils.InvokerName(i),
	}
	if opt, ok := opts["rechnungssteller"]; ok {
		rec.InvoiceIssuer = opt.StringValue()
	}
	if opt, ok := opts["einkaufspreis"]; ok {
		rec.PurchasePrice = opt.IntValue()
	}
	if opt, ok := opts["rechnungshoehe"]; ok {
		rec.InvoiceAmount = opt.IntValue()
	}

	if _, err := h.Docs.Eigentuning(context.Background(), i.ChannelID, rec); err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}
	if err := utils.SendEphemeral(s, i, "Eigentuning wurde dokumentiert!"); err != nil {
		h.logger().Warn("error confirming eigentuning", zap.Error(err))
	}
}
