// Package directive recognises #include directives inside raw source bytes.
//
// Only directives that start a line are considered: the marker must sit at
// offset 0 or right after a '\n'. Reported offsets therefore always point at
// the '#' of the directive, never into the middle of a line or a comment.
//
// A missing directive is reported as an Offset whose Found method returns
// false. This is distinct from a directive found at offset 0.
package directive
