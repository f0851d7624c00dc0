// Package template fills action output templates with paste data.
//
// Actions such as the file saver accept a template string with named
// placeholders (${body}, ${key}, ${matcher}, ...) describing how paste
// fields and match data are laid out in the produced output.
package template
