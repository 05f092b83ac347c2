// Package websocket exposes the arena over HTTP: a JSON leaderboard, a
// health probe and one WebSocket endpoint per player.
//
// Wire protocol, all frames are JSON text:
//
//	client -> {"player_name": "Ann"}            first frame, joins the arena
//	client -> {"direction": "up"}               one move intent
//	client -> {"action": "reset"}               play again after game over
//	server -> {"players": {...}, "food": [x,y], "board_size": [w,h],
//	           "scores": {...}, "game_over": {...}, "names": {...}}
//
// The frame answering the intent that ended a round also carries
// "is_top_10" and "top_scores".
package websocket
