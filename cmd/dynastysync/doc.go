// Command dynastysync keeps a local dynasty database in step with a game save
// file.
//
// It validates a save with the extraction tool, shows what is new compared to
// the database, and commits the additions after confirmation or a short
// countdown. "dynastysync watch" runs the same flow every time the save file
// changes.
package main
