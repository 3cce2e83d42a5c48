// Package assets implements AssetRenderer: installing each module's own
// declared assets into the compilation's asset map, then rendering every
// chunk's render manifest (via internal/template) into that same map,
// detecting filename collisions along the way.
package assets
