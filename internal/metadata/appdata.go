// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"
)

const (
	metadataLicense = "CC0-1.0"
	// oarsVersion stays at 1.0; KDE Discover does not understand oars-1.1.
	oarsVersion = "oars-1.0"
)

var recommendedControls = []string{"pointing", "keyboard", "touch", "gamepad"}

type (
	component struct {
		XMLName         xml.Name       `xml:"component"`
		Type            string         `xml:"type,attr"`
		ID              string         `xml:"id"`
		Name            string         `xml:"name"`
		Summary         string         `xml:"summary"`
		MetadataLicense string         `xml:"metadata_license"`
		ProjectLicense  string         `xml:"project_license"`
		Controls        []string       `xml:"recommends>control"`
		Requires        requires       `xml:"requires"`
		Categories      []string       `xml:"categories>category"`
		Description     paragraph      `xml:"description"`
		Launchable      launchable     `xml:"launchable"`
		ContentRating   *contentRating `xml:"content_rating,omitempty"`
		Releases        *releases      `xml:"releases,omitempty"`
	}

	requires struct {
		DisplayLength displayLength `xml:"display_length"`
		Internet      string        `xml:"internet"`
	}

	displayLength struct {
		Compare string `xml:"compare,attr"`
		Value   string `xml:",chardata"`
	}

	paragraph struct {
		P string `xml:"p"`
	}

	launchable struct {
		Type  string `xml:"type,attr"`
		Value string `xml:",chardata"`
	}

	contentRating struct {
		Type       string             `xml:"type,attr"`
		Attributes []contentAttribute `xml:"content_attribute"`
	}

	contentAttribute struct {
		ID    string `xml:"id,attr"`
		Value string `xml:",chardata"`
	}

	releases struct {
		Releases []release `xml:"release"`
	}

	release struct {
		Version string `xml:"version,attr"`
		Date    string `xml:"date,attr"`
	}
)

// AppData renders the AppStream metainfo document for desc. Element order is
// fixed; map-backed blocks are sorted, and omitted entirely when empty.
func AppData(desc *description.Description, id appid.AppID) ([]byte, error) {
	c := component{
		Type:            "desktop-application",
		ID:              id.String(),
		Name:            desc.Common.Name,
		Summary:         desc.AppData.Summary,
		MetadataLicense: metadataLicense,
		ProjectLicense:  desc.AppData.ProjectLicense(),
		Controls:        recommendedControls,
		Requires: requires{
			DisplayLength: displayLength{Compare: "ge", Value: "360"},
			Internet:      "offline-only",
		},
		Categories:    append([]string{"Game"}, desc.Common.Categories...),
		Description:   paragraph{P: desc.AppData.LongDescription()},
		Launchable:    launchable{Type: "desktop-id", Value: id.String() + ".desktop"},
		ContentRating: buildContentRating(desc.AppData.ContentRating),
		Releases:      buildReleases(desc.AppData.Releases),
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode metainfo for %s: %w", id, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteAppData writes <appid>.metainfo.xml into dir.
func WriteAppData(desc *description.Description, id appid.AppID, dir string) (File, error) {
	data, err := AppData(desc, id)
	if err != nil {
		return File{}, err
	}
	return writeFile(dir, id.String()+".metainfo.xml", data)
}

func buildContentRating(ratings map[string]description.Intensity) *contentRating {
	if len(ratings) == 0 {
		return nil
	}
	cr := &contentRating{Type: oarsVersion}
	keys := maps.Keys(ratings)
	slices.Sort(keys)
	for _, k := range keys {
		cr.Attributes = append(cr.Attributes, contentAttribute{ID: k, Value: ratings[k].String()})
	}
	return cr
}

// buildReleases orders releases newest first; equal dates fall back to
// descending version strings.
func buildReleases(versions map[string]string) *releases {
	if len(versions) == 0 {
		return nil
	}
	rs := make([]release, 0, len(versions))
	for v, d := range versions {
		rs = append(rs, release{Version: v, Date: d})
	}
	slices.SortFunc(rs, func(a, b release) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.Version, a.Version)
	})
	return &releases{Releases: rs}
}
