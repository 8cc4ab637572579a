package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tapedeck/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d tracks", i.playlist.TrackCount)
}

// trackItem wraps [models.InventoryItem] to implement [list.Item].
type trackItem struct {
	item models.InventoryItem
}

func (i trackItem) FilterValue() string { return i.item.Name }
func (i trackItem) Title() string {
	if i.item.Downloaded {
		return "✓ " + i.item.Name
	}
	return "  " + i.item.Name
}
func (i trackItem) Description() string {
	if i.item.Downloaded {
		return fmt.Sprintf("%s • downloaded", i.item.Artist)
	}
	return i.item.Artist
}

func countDownloaded(items []models.InventoryItem) int {
	n := 0
	for _, it := range items {
		if it.Downloaded {
			n++
		}
	}
	return n
}
