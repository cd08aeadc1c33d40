// Command trackmix inspects media tracks and remuxes selected tracks from
// several files into one Matroska output.
//
//	trackmix probe <path> [--kind video|audio|subtitle] [--json]
//	trackmix size <path>
//	trackmix mix -o OUT --video PATH#IDS [--audio PATH#IDS] [--subtitle PATH#IDS] [--lang KIND:ID=LANG]
//	trackmix tools
//	trackmix jobs [--limit N] | jobs show <id>
//	trackmix watchlist list | watchlist save --from-json FILE
//	trackmix serve [--bind ADDR]
//	trackmix config init [--path P]
//
// Tables are printed when stdout is a terminal; otherwise, or with --json,
// commands print JSON. Logs go to stderr.
package main
