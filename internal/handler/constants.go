// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteProjects is the project browser.
	RouteProjects = "/projects"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteAdmin is the admin panel.
	RouteAdmin = "/admin"
	// RouteContact receives the contact form.
	RouteContact = "/contact"
	// RouteMedia serves portfolio media.
	RouteMedia = "/media"
	// RouteStatic serves the embedded stylesheet.
	RouteStatic = "/static"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteRobots and RouteSitemap are the crawler files.
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
)

// Redirect targets.
const (
	redirectAdmin         = RouteAdmin
	redirectAdminProjects = RouteAdmin + "?tab=" + TabProjects
	redirectAdminPersonal = RouteAdmin + "?tab=" + TabPersonal
	redirectLogin         = RouteLogin
	redirectContact       = RouteRoot + "#contacts"
)

// Admin panel tabs.
const (
	TabPersonal = "personal"
	TabProjects = "projects"
	TabSkills   = "skills"
	TabActivity = "activity"
)

// AdminTabs lists the admin tabs in display order.
var AdminTabs = []string{TabPersonal, TabProjects, TabSkills, TabActivity}

// recentEventsLimit caps the activity tab.
const recentEventsLimit = 50
