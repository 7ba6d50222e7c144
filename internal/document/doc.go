// Package document loads scripts into paragraph sequences.
//
// A script is read one paragraph at a time. Plain text and PDF sources use
// one paragraph per non-empty line, where a line starting or ending with
// "##" marks a section end. Markdown, HTML, and DOCX sources map headings to
// section ends and body blocks to text. Every paragraph has its whitespace
// collapsed and the language's replacement table applied before it is stored.
package document
