// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Section defaults for the projects listing.
const (
	ProjectsSectionTitle = "projects"
	ProjectsViewAllText  = "View all ~~>"
)

// Project action types.
const (
	ActionLive = "live"
	ActionCode = "code"
)

// SocialLink is an outbound profile link.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// ContactMethod is one line of the contact section.
type ContactMethod struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
	Alt  string `json:"alt"`
}

// Bio is the about-me text.
type Bio struct {
	Greeting   string   `json:"greeting"`
	Paragraphs []string `json:"paragraphs"`
}

// ContactInfo is the contact section content.
type ContactInfo struct {
	Description string          `json:"description"`
	Methods     []ContactMethod `json:"methods"`
}

// Footer is the page footer content.
type Footer struct {
	Description string       `json:"description"`
	Copyright   string       `json:"copyright"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

// PersonalInfo is the canonical biography document.
type PersonalInfo struct {
	ID          string       `json:"$id,omitempty"`
	Name        string       `json:"name"`
	ShortName   string       `json:"shortName"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	Description string       `json:"description"`
	Email       string       `json:"email"`
	CurrentWork string       `json:"currentWork"`
	Bio         Bio          `json:"bio"`
	Contact     ContactInfo  `json:"contact"`
	SocialLinks []SocialLink `json:"socialLinks"`
	Footer      Footer       `json:"footer"`
}

// ProjectAction is a call-to-action button on a project card.
type ProjectAction struct {
	Label   string `json:"label"`
	Primary bool   `json:"primary"`
	Type    string `json:"type"`
}

// Project is one portfolio entry. ID is the store-assigned key and the only
// identifier used after import.
type Project struct {
	ID           string          `json:"$id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Technologies []string        `json:"technologies"`
	LiveURL      string          `json:"liveUrl"`
	CodeURL      string          `json:"codeUrl"`
	Featured     bool            `json:"featured"`
	Order        int             `json:"order"`
	Actions      []ProjectAction `json:"actions"`
}

// ActionURL returns the link behind an action, or "" when the project has none.
func (p Project) ActionURL(actionType string) string {
	switch actionType {
	case ActionLive:
		return p.LiveURL
	case ActionCode:
		return p.CodeURL
	}
	return ""
}

// ProjectsData wraps the project list with its section labels.
type ProjectsData struct {
	SectionTitle string    `json:"sectionTitle"`
	ViewAllText  string    `json:"viewAllText"`
	Projects     []Project `json:"projects"`
}

// SkillCategory groups skills; each row of Skills is rendered on one line.
type SkillCategory struct {
	Title  string     `json:"title"`
	Skills [][]string `json:"skills"`
}

// SkillsData is the canonical skills document.
type SkillsData struct {
	ID           string          `json:"$id,omitempty"`
	SectionTitle string          `json:"sectionTitle"`
	Categories   []SkillCategory `json:"categories"`
}

// AchievementItem is a certificate, award or competition result.
type AchievementItem struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Organization    string   `json:"organization"`
	Date            string   `json:"date"`
	Description     string   `json:"description,omitempty"`
	CredentialID    string   `json:"credentialId,omitempty"`
	VerificationURL string   `json:"verificationUrl,omitempty"`
	Position        string   `json:"position,omitempty"`
	Image           string   `json:"image"`
	Skills          []string `json:"skills"`
}

// AchievementCategory groups achievement items.
type AchievementCategory struct {
	Title string            `json:"title"`
	Icon  string            `json:"icon"`
	Items []AchievementItem `json:"items"`
}

// AchievementsData is the canonical achievements document.
type AchievementsData struct {
	ID           string                `json:"$id,omitempty"`
	SectionTitle string                `json:"sectionTitle"`
	Categories   []AchievementCategory `json:"categories"`
}

// Quote is a single quotation.
type Quote struct {
	ID     string `json:"$id,omitempty"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Order  int    `json:"order"`
}

// QuotesData wraps the quote list.
type QuotesData struct {
	Quotes []Quote `json:"quotes"`
}

// Logo is the header brand mark.
type Logo struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// MenuItem is a header navigation entry.
type MenuItem struct {
	Text   string `json:"text"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// LanguageOption is an entry of the language switcher.
type LanguageOption struct {
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// NavigationData is the canonical header navigation document.
type NavigationData struct {
	ID        string           `json:"$id,omitempty"`
	Logo      Logo             `json:"logo"`
	MenuItems []MenuItem       `json:"menuItems"`
	Languages []LanguageOption `json:"languages"`
}

// ProfileImage is an image with its alt text.
type ProfileImage struct {
	ProfileImage string `json:"profileImage"`
	Alt          string `json:"alt"`
}

// DecorativeImages are the background ornaments.
type DecorativeImages struct {
	Union  string `json:"union"`
	Union1 string `json:"union1"`
	Union2 string `json:"union2"`
	Union3 string `json:"union3"`
	Line14 string `json:"line14"`
	Line15 string `json:"line15"`
}

// ImagesData is the canonical image set document.
type ImagesData struct {
	ID         string           `json:"$id,omitempty"`
	Hero       ProfileImage     `json:"hero"`
	About      ProfileImage     `json:"about"`
	Decorative DecorativeImages `json:"decorative"`
}
