package goquery

// Role is what a policy rule does with the elements its selector matches.
type Role int

const (
	// RoleContent marks a candidate main content container. The first
	// content rule with a match wins.
	RoleContent Role = iota

	// RoleExclude marks elements removed from the selected container.
	RoleExclude
)

// Rule pairs a CSS selector with its role.
type Rule struct {
	Selector string
	Role     Role
}

// DefaultPolicy lists framework containers before generic ones so the most
// specific match wins.
var DefaultPolicy = []Rule{
	// Docusaurus
	{".theme-doc-markdown", RoleContent},
	// MkDocs Material
	{".md-content__inner", RoleContent},
	{".md-content", RoleContent},
	// Sphinx and Read the Docs
	{"div[itemprop='articleBody']", RoleContent},
	{".rst-content .document", RoleContent},
	{"div.body[role='main']", RoleContent},
	// VitePress
	{".VPDoc .vp-doc", RoleContent},
	// VuePress
	{".theme-default-content", RoleContent},
	// GitBook
	{"[data-testid='page.contentEditor']", RoleContent},
	// Nextra
	{".nextra-content", RoleContent},
	// Generic
	{"main article", RoleContent},
	{"main", RoleContent},
	{"article", RoleContent},
	{"[role='main']", RoleContent},
	{".content", RoleContent},
	{".doc-content", RoleContent},

	{"nav", RoleExclude},
	// Site headers only; article headers often hold the page's h1.
	{"body > header", RoleExclude},
	{"[role='banner']", RoleExclude},
	{"footer", RoleExclude},
	{"aside", RoleExclude},
	{"script", RoleExclude},
	{"style", RoleExclude},
	{"noscript", RoleExclude},
	{"template", RoleExclude},
	{"form", RoleExclude},
	{"button", RoleExclude},
	{"iframe", RoleExclude},
	{"svg", RoleExclude},
	{"[role='navigation']", RoleExclude},
	{".sidebar", RoleExclude},
	{".toc", RoleExclude},
	{".table-of-contents", RoleExclude},
	{".breadcrumbs", RoleExclude},
	{".pagination-nav", RoleExclude},
	{".headerlink", RoleExclude},
	{".hash-link", RoleExclude},
	{".md-source-file", RoleExclude},
}
