// Package feed builds the RSS document for the newest posts.
package feed

import (
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"
)

const ContentType = "application/rss+xml; charset=utf-8"

type Channel struct {
	Title       string
	Link        string
	Description string
	Author      string
}

type Item struct {
	Title     string
	Path      string
	Published time.Time
}

// Build renders items as RSS 2.0. Item paths are resolved against the
// channel link so every item carries an absolute URL.
func Build(channel Channel, items []Item) (string, error) {
	base := strings.TrimSuffix(channel.Link, "/")

	f := &feeds.Feed{
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.Link},
		Description: channel.Description,
	}
	if channel.Author != "" {
		f.Author = &feeds.Author{Name: channel.Author}
	}

	for _, item := range items {
		link := base + item.Path
		f.Items = append(f.Items, &feeds.Item{
			Title:   item.Title,
			Link:    &feeds.Link{Href: link},
			Id:      link,
			Created: item.Published,
		})
		if item.Published.After(f.Created) {
			f.Created = item.Published
		}
	}

	rss, err := f.ToRss()
	if err != nil {
		return "", errors.WithMessage(err, "serializing rss")
	}
	return rss, nil
}
