// Package orchestrator wires the load → parse → build → render pipeline that
// turns an OpenAPI operation into a rendered GOV.UK form.
package orchestrator
