// Package definition loads declarative wizard definitions. Each JSON, YAML or
// TOML file under a filesystem declares one or more wizards keyed by id, with
// a configuration block and an ordered list of steps:
//
//	wizards:
//	  bookmark:
//	    config:
//	      submitText: Save
//	    steps:
//	      - name: url
//	        label: Paste a link
//	        rules:
//	          - kind: required
//
// Steps are normalised through the control table so every step carries a
// resolved kind and a value of the right shape. Inline SVG icons are
// sanitised before they reach a renderer.
package definition
