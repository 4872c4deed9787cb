// Package template defines the template engine seam the GOV.UK renderer
// depends on. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
