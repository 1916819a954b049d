// Package plan reconstructs a curriculum from the positioned words of a PDF.
//
// A study-plan table exists in the PDF only as visually aligned text: a course
// code in a left column, the course name in a middle column and prerequisite
// codes in a right column, with names and prerequisite lists free to wrap onto
// following lines. Extraction runs as a strictly downstream pipeline:
//
//	words -> rows -> year blocks -> anchors + builders -> courses -> normalized ids
//
// Rows are built by clustering words with nearby vertical positions. Header rows
// split the document into one block per curriculum year. Inside a block every
// row carrying a left-column code is an anchor; every other row is attributed to
// the nearest plausible anchor and its fragments are appended to that course.
// Finally prerequisite references are reconciled with the emitted ids.
//
// Everything here is synchronous and free of shared state, so separate documents
// can be processed concurrently by the caller.
package plan
