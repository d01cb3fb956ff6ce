// Package loop finds the best seamless loop point in a sequence of analysis
// frames.
//
// Enumerate produces the candidate (from, to) pairs permitted by the skip and
// max windows, SelectBest picks the highest scoring pair and maps it back onto
// the source timeline, and Analyzer ties both ends together with the result
// cache, the scoring pool and the progress reporter. Frame indices are
// 1-based throughout so they line up with the numbered frame files on disk.
package loop
