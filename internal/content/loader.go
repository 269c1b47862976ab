// Package content renders the site's live feed (embedded Google Docs and
// Drive PDF previews) and submits the contact and member-lookup forms.
package content

import (
	"context"
	"log/slog"

	"TempleChat/internal/feed"
)

// Slots filled from the live feed.
const (
	SlotAboutMain      = "about-main"
	SlotCalendarLatest = "calendar-latest"
	SlotPassageLatest  = "passage-latest"
)

const aboutTitle = "About — Myogyoji"

// Embed is one frame to place in a page slot.
type Embed struct {
	Slot  string
	Title string
	URL   string
}

// FeedFetcher fetches the live feed.
type FeedFetcher interface {
	Feed(ctx context.Context) (feed.FeedResponse, error)
}

// Loader turns the live feed into embeds.
type Loader struct {
	client FeedFetcher
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(client FeedFetcher, logger *slog.Logger) *Loader {
	return &Loader{client: client, logger: logger}
}

// DocEmbedURL is the published, embeddable view of a Google Doc.
func DocEmbedURL(docID string) string {
	return "https://docs.google.com/document/d/" + docID + "/pub?embedded=true"
}

// DrivePreviewURL is the preview frame of a Drive file.
func DrivePreviewURL(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/preview"
}

// Load fetches the feed and returns the embeds it describes. A failed or
// rejected feed yields no embeds; pages keep their static fallback.
func (l *Loader) Load(ctx context.Context) []Embed {
	resp, err := l.client.Feed(ctx)
	if err != nil {
		l.logger.Warn("failed to load feed", "error", err)
		return nil
	}
	if !resp.OK {
		l.logger.Warn("feed rejected")
		return nil
	}

	var embeds []Embed
	if resp.Docs != nil && resp.Docs.AboutMain != "" {
		embeds = append(embeds, Embed{Slot: SlotAboutMain, Title: aboutTitle, URL: DocEmbedURL(resp.Docs.AboutMain)})
	}
	if resp.Calendar != nil && resp.Calendar.ID != "" {
		embeds = append(embeds, Embed{Slot: SlotCalendarLatest, Title: titleOrDefault(resp.Calendar.Name), URL: DrivePreviewURL(resp.Calendar.ID)})
	}
	if resp.Passage != nil && resp.Passage.ID != "" {
		embeds = append(embeds, Embed{Slot: SlotPassageLatest, Title: titleOrDefault(resp.Passage.Name), URL: DrivePreviewURL(resp.Passage.ID)})
	}
	l.logger.Info("feed loaded", "embeds", len(embeds))
	return embeds
}

func titleOrDefault(name string) string {
	if name == "" {
		return "Embedded Content"
	}
	return name
}
