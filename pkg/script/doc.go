/*
Package script loads timelines described in YAML.

A script declares named numeric variables and a list of root steps that are
started side by side. Each step is a single-key mapping whose key names the
kind:

	name: fade
	vars:
	  opacity: 0
	steps:
	  - sequence:
	      - wait: 0.5
	      - frames: 2
	      - animate: {var: opacity, to: 1, ease: quad-out}
	      - log: faded in
	  - until: {var: opacity, op: ">=", value: 1}

# Kinds

  - wait: seconds of clock time.
  - frames: number of advances.
  - animate: {var, to, ease} moves a variable over one second.
  - set: {var, value} assigns a variable.
  - log: writes a message to the logger.
  - until / while: {var, op, value} wait on a comparison.
  - sequence / race / all: lists of nested steps.

Parse validates the whole document and reports every problem at once.
Compile turns a script into fresh steps; call it again to run the script again.
*/
package script
