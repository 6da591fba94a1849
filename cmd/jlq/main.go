// Command jlq scans a JSON-Lines object stored in redis, reassembles its
// records (which may arrive split across chunks) and prints the ones whose
// name matches the configured substring.
//
// Configuration comes from the environment:
//
//	BUCKET_NAME   logical bucket of the object (required)
//	OBJECT_KEY    object key within the bucket (required)
//	REDIS_ADDR    redis address (default localhost:6379)
//	NAME_CONTAINS substring filter on the name field (default "b")
//	CHUNK_SIZE    fetch window in bytes (default 4096)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	goredis "github.com/redis/go-redis/v9"
	uberzap "go.uber.org/zap"

	"github.com/unkn0wn-root/jlstream"
	"github.com/unkn0wn-root/jlstream/codec"
	zaplog "github.com/unkn0wn-root/jlstream/log/zap"
	"github.com/unkn0wn-root/jlstream/provider/bigcache"
	redsrc "github.com/unkn0wn-root/jlstream/source/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl, err := uberzap.NewProduction()
	if err != nil {
		fatalError("logger init: %s", err)
	}
	defer func() { _ = zl.Sync() }()

	bucket := mustEnv("BUCKET_NAME")
	objectKey := mustEnv("OBJECT_KEY")
	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	nameContains := envOr("NAME_CONTAINS", "b")

	chunkSize := 0
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		chunkSize, err = strconv.Atoi(v)
		if err != nil {
			fatalError("CHUNK_SIZE: %s", err)
		}
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	defer func() { _ = rdb.Close() }()

	opener, err := redsrc.New(redsrc.Config{Client: rdb, ChunkSize: chunkSize})
	if err != nil {
		fatalError("source: %s", err)
	}

	cache, err := bigcache.New(bigcache.Config{LifeWindow: 10 * time.Minute})
	if err != nil {
		fatalError("cache: %s", err)
	}
	defer func() { _ = cache.Close(ctx) }()

	q, err := jlstream.New[jlstream.Record](jlstream.Options[jlstream.Record]{
		Namespace: "jlq",
		Opener:    opener,
		Decode:    jlstream.DecodeRecord,
		Filter: func(r jlstream.Record) bool {
			return strings.Contains(r.Name, nameContains)
		},
		Provider: cache,
		Codec:    codec.JSON[jlstream.Record]{},
		Logger:   zaplog.ZapLogger{L: zl},
	})
	if err != nil {
		fatalError("setup: %s", err)
	}

	spec := jlstream.QuerySpec{
		Bucket:    bucket,
		Key:       objectKey,
		Predicate: "name_contains=" + nameContains,
	}
	records, err := q.Run(ctx, spec)
	if err != nil {
		fatalError("query %s/%s: %s", bucket, objectKey, err)
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		printTable(records)
	} else {
		printLines(records)
	}
}

func printTable(records []jlstream.Record) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Extra fields"})
	for _, r := range records {
		table.Append([]string{strconv.Itoa(r.ID), r.Name, strconv.Itoa(len(r.Extra))})
	}
	table.Render()
}

func printLines(records []jlstream.Record) {
	enc := json.NewEncoder(os.Stdout)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			fatalError("encode output: %s", err)
		}
	}
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		fatalError("%s is not set", name)
	}
	return v
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func fatalError(tpl string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, tpl+"\n", args...)
	os.Exit(1)
}
