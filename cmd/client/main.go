package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/NoteKeeper/internal/client/remote"
	"github.com/atinyakov/NoteKeeper/internal/client/storage"
	"github.com/atinyakov/NoteKeeper/internal/client/sync"
	"github.com/atinyakov/NoteKeeper/internal/config"
)

var (
	version   string
	buildDate string
)

// repl runs the interactive shell loop, accepting commands to manage notes.
func repl(ctx context.Context, engine *sync.Engine) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("notekeeper> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, add <title> [tag,tag], list, get <id>, edit <id> <title> [tag,tag], delete <id>, sync, exit")
		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <title> [tag,tag]")
				continue
			}
			title, tags := titleAndTags(args[1:])
			note, err := sync.NewNote(title, tags)
			if err != nil {
				fmt.Println("Cannot create note:", err)
				continue
			}
			if err := engine.SubmitNote(ctx, note); err != nil {
				fmt.Println("Cannot save note:", err)
				continue
			}
			fmt.Println("Note created:", note.LocalID)
		case "list":
			notes, err := engine.ListNotes()
			if err != nil {
				fmt.Println("Cannot list notes:", err)
				continue
			}
			for _, n := range notes {
				status := "synced"
				if !n.Synced() {
					status = "pending upload"
				} else if n.PendingEdit {
					status = "pending edit"
				}
				fmt.Printf("ID: %s\nTitle: %s\nTags: %s\nCreated: %s\nStatus: %s\n---\n",
					n.LocalID, n.Title, strings.Join(n.Tags, ", "),
					n.CreatedAt.Format(time.RFC3339), status)
			}
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			notes, err := engine.ListNotes()
			if err != nil {
				fmt.Println("Cannot list notes:", err)
				continue
			}
			found := false
			for _, n := range notes {
				if n.LocalID == args[1] {
					b, _ := json.MarshalIndent(n, "", "  ")
					fmt.Println(string(b))
					found = true
					break
				}
			}
			if !found {
				fmt.Println("Note not found")
			}
		case "edit":
			if len(args) < 3 {
				fmt.Println("Usage: edit <id> <title> [tag,tag]")
				continue
			}
			title, tags := titleAndTags(args[2:])
			if err := engine.EditNote(ctx, args[1], title, tags); err != nil {
				fmt.Println("Cannot edit note:", err)
				continue
			}
			fmt.Println("Note updated")
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := engine.DeleteNote(ctx, args[1]); err != nil {
				fmt.Println("Cannot delete note:", err)
				continue
			}
			fmt.Println("Note deleted")
		case "sync":
			res, err := engine.Reconcile(ctx)
			if err != nil {
				fmt.Println("Sync failed:", err)
				continue
			}
			fmt.Printf("Sync done: created=%d deleted=%d pulled=%d conflicts=%d errors=%d\n",
				res.Created, res.Deleted, res.Attached+res.Pulled,
				len(res.Conflicts), len(res.Errors))
		case "exit":
			return
		default:
			fmt.Println("Unknown command:", args[0])
		}
	}
}

// titleAndTags splits REPL arguments into a title and an optional
// comma-separated tag list carried in the last argument.
func titleAndTags(args []string) (string, []string) {
	if len(args) > 1 && strings.Contains(args[len(args)-1], ",") {
		tags := strings.Split(args[len(args)-1], ",")
		return strings.Join(args[:len(args)-1], " "), tags
	}
	return strings.Join(args, " "), nil
}

func main() {
	options := config.Parse()

	fmt.Printf("NoteKeeper Client\nVersion: %s\nBuild Date: %s\n",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ls, err := storage.Open(options.StorageFile)
	if err != nil {
		log.Fatal(err)
	}

	client := remote.NewClient(&http.Client{Timeout: 10 * time.Second}, options.ServerURL)
	online := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx)
	}

	engine := sync.New(ls, client, online, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sync.StartAutoSync(ctx, engine, options.SyncInterval, zapLogger)

	repl(ctx, engine)
}
