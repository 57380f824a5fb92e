// Package tuningdoc persists and posts tuning documentations. Service is
// the side-effect half of the interactive submission flow and also serves the
// one-shot slash commands.
package tuningdoc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"werkstatt-bot/flow"
	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/apperr"
)

// Store is the part of the record store the service writes.
type Store interface {
	CreateTuningDocumentation(ctx context.Context, d *model.TuningDocumentation) (int64, error)
	SetTuningImage(ctx context.Context, topic model.Topic, id int64, url string) error
	CreateEigentuning(ctx context.Context, e *model.EigentuningRecord) (int64, error)
}

// PanelPublisher republishes a panel. Failures are handled inside.
type PanelPublisher interface {
	PublishPanel(ctx context.Context, channelID string, topic model.Topic) *discordgo.Message
}

// Service implements flow.Hooks.
type Service struct {
	store    Store
	session  model.Session
	panels   PanelPublisher
	validate *validator.Validate
	window   time.Duration
	logoPath string
	logger   *zap.Logger
}

var _ flow.Hooks = (*Service)(nil)

// Options configures a Service.
type Options struct {
	Validate *validator.Validate
	Window   time.Duration
	LogoPath string
	Logger   *zap.Logger
}

// NewService creates a Service.
func NewService(store Store, session model.Session, panels PanelPublisher, opts Options) *Service {
	if opts.Validate == nil {
		opts.Validate = model.NewValidator()
	}
	if opts.Window <= 0 {
		opts.Window = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		session:  session,
		panels:   panels,
		validate: opts.Validate,
		window:   opts.Window,
		logoPath: opts.LogoPath,
		logger:   opts.Logger.Named("documentation"),
	}
}

var fieldLabels = map[string]string{
	"CustomerName":  "Kunde",
	"Plate":         "Kennzeichen",
	"Description":   "Durchgefuehrte Aenderungen",
	"Color":         "Xenon-Farbe",
	"InvoiceIssuer": "Rechnungssteller",
	"PurchasePrice": "Einkaufspreis",
	"InvoiceAmount": "Rechnungshoehe",
}

// validationError turns the first failed field into a user message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Wrap(err, apperr.KindInternal, apperr.GenericMessage)
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required", "required_if":
		return apperr.Validation(fmt.Sprintf("Das Feld \"%s\" darf nicht leer sein.", label))
	case "max":
		return apperr.Validation(fmt.Sprintf("Das Feld \"%s\" darf hoechstens %s Zeichen lang sein.", label, fe.Param()))
	case "gte":
		return apperr.Validation(fmt.Sprintf("Das Feld \"%s\" darf nicht negativ sein.", label))
	default:
		return apperr.Validation(fmt.Sprintf("Das Feld \"%s\" ist ungueltig.", label))
	}
}

// Validate normalises the plate and checks doc against its topic.
func (s *Service) Validate(doc *model.TuningDocumentation) error {
	if !doc.Topic.IsDocumentation() {
		return apperr.Validation("Unbekannte Dokumentationsart.")
	}
	doc.Plate = model.NormalizePlate(doc.Plate)
	if err := s.validate.Struct(doc); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, doc *model.TuningDocumentation) error {
	if err := s.Validate(doc); err != nil {
		return err
	}
	id, err := s.store.CreateTuningDocumentation(ctx, doc)
	if err != nil {
		return apperr.Storage(err, "Fehler beim Speichern der Dokumentation.")
	}
	doc.ID = id
	return nil
}

// Persist stores the submitted record without image.
func (s *Service) Persist(ctx context.Context, sub *flow.Submission) error {
	return s.save(ctx, sub.Doc)
}

// PromptChoice replaces the deferred modal reply with the two choice buttons.
func (s *Service) PromptChoice(_ context.Context, sub *flow.Submission) error {
	content := fmt.Sprintf("Dokumentation #%d wurde gespeichert. Moechtest du ein Bild anhaengen? (%d Sekunden)",
		sub.Doc.ID, int(s.window.Seconds()))
	components := ChoiceComponents(sub.Token)
	_, err := s.session.InteractionResponseEdit(sub.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	return err
}

// PromptUpload asks for the image and removes the buttons.
func (s *Service) PromptUpload(_ context.Context, sub *flow.Submission) error {
	content := fmt.Sprintf("Lade das Bild jetzt als Nachricht in diesem Kanal hoch. Du hast %d Sekunden Zeit.",
		int(s.window.Seconds()))
	return utils.SendFollowUp(s.session, sub.Interaction, content)
}

// AttachImage stores url on the persisted record.
func (s *Service) AttachImage(ctx context.Context, sub *flow.Submission, url string) error {
	if err := s.store.SetTuningImage(ctx, sub.Topic, sub.Doc.ID, url); err != nil {
		return err
	}
	sub.Doc.ImageURL = &url
	return nil
}

// DiscardUpload deletes the user's upload message.
func (s *Service) DiscardUpload(_ context.Context, sub *flow.Submission, messageID string) error {
	return s.session.ChannelMessageDelete(sub.ChannelID, messageID)
}

// Publish posts the finished documentation into the submission channel,
// confirms to the user and moves the panel below the post.
func (s *Service) Publish(ctx context.Context, sub *flow.Submission) error {
	_, err := s.session.ChannelMessageSendComplex(sub.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{Embed(sub.Doc)},
	})
	if err != nil {
		return err
	}
	if ferr := utils.SendFollowUp(s.session, sub.Interaction, "Dokumentation wurde erfasst!"); ferr != nil {
		s.logger.Debug("confirmation not sent", zap.String("token", sub.Token), zap.Error(ferr))
	}
	s.panels.PublishPanel(ctx, sub.ChannelID, sub.Topic)
	return nil
}

// Document persists a complete documentation in one step, posts it into
// channelID and republishes that channel's panel. The record is kept when
// posting fails.
func (s *Service) Document(ctx context.Context, channelID string, doc *model.TuningDocumentation) (*discordgo.Message, error) {
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	msg, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{Embed(doc)},
	})
	if err != nil {
		s.logger.Warn("documentation post failed",
			zap.String("topic", string(doc.Topic)),
			zap.Int64("id", doc.ID),
			zap.Error(err))
		return nil, nil
	}
	s.panels.PublishPanel(ctx, channelID, doc.Topic)
	return msg, nil
}

// Eigentuning stores rec and posts it into channelID with the company logo.
func (s *Service) Eigentuning(ctx context.Context, channelID string, rec *model.EigentuningRecord) (*discordgo.Message, error) {
	if err := s.validate.Struct(rec); err != nil {
		return nil, validationError(err)
	}
	id, err := s.store.CreateEigentuning(ctx, rec)
	if err != nil {
		return nil, apperr.Storage(err, "Fehler beim Speichern des Eigentunings.")
	}
	rec.ID = id

	send := &discordgo.MessageSend{}
	logo := utils.LoadLogo(s.logoPath)
	if logo != nil {
		send.Files = []*discordgo.File{logo}
	}
	send.Embeds = []*discordgo.MessageEmbed{EigentuningEmbed(rec, logo != nil)}
	msg, err := s.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		s.logger.Warn("eigentuning post failed", zap.Int64("id", id), zap.Error(err))
		return nil, nil
	}
	return msg, nil
}
