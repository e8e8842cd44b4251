/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3store keeps chesselo state in Amazon S3. A Store is both an
 * httpcache.Cache, used to cache fetched roster pages, and an
 * elo.Persister, which snapshots players and games as JSON whenever a game
 * resolves so that a ladder can later be restored with LoadPlayer.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/chesselo/elo"
)

// S3API is the subset of *s3.Client used by a Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput,
		optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var ErrNotFound = errors.New("object not found")

// Store objects store and retrieve data using Amazon S3.
type Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the store uses when interacting with S3.
	// By default this is initialized in Init() with the default Config, but
	// callers can optionally override this with their own client.
	Client S3API

	// bucketName is the name of the S3 bucket, e.g. "mybucket".
	bucketName string

	// prefix is prepended to every object key; it allows several ladders
	// to share a bucket.
	prefix string

	// gzip indicates whether objects should be gzipped on write and
	// gunzipped on read. If true, object keys have ".gz" appended.
	gzip bool

	// LogErrors controls whether cache errors should be logged or not
	logErrors bool

	// The context to specify when initiating s3 requests
	ctx context.Context

	gameSeq atomic.Uint64
}

// PlayerSnapshot is the stored form of an elo.Player. KFactor is the
// K-factor for the player's next game; it is only restored when
// KFactorFixed records that it was set explicitly rather than chosen by
// the rating policy.
type PlayerSnapshot struct {
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Pro          bool      `json:"pro"`
	KFactor      int       `json:"kFactor"`
	KFactorFixed bool      `json:"kFactorFixed"`
	SavedAt      time.Time `json:"savedAt"`
}

// GameSnapshot is the stored form of a resolved elo.Game.
type GameSnapshot struct {
	PlayerOne    string    `json:"playerOne"`
	PlayerTwo    string    `json:"playerTwo"`
	Result       float64   `json:"result"`
	OneOldRating int       `json:"oneOldRating"`
	OneNewRating int       `json:"oneNewRating"`
	OneKFactor   float64   `json:"oneKFactor"`
	TwoOldRating int       `json:"twoOldRating"`
	TwoNewRating int       `json:"twoNewRating"`
	TwoKFactor   float64   `json:"twoKFactor"`
	SavedAt      time.Time `json:"savedAt"`
}

// New returns a new Store with underlying storage in the specified Amazon
// S3 bucket, keeping all objects under prefix. Additionally, specify
// whether objects should be compressed with gzip or not. Callers should
// take care to invoke Init() on the returned Store before use unless they
// set Client themselves.
func New(ctxIn context.Context, bucketNameIn string, prefixIn string,
	gzipIn bool, logErrorsIn bool) *Store {

	return &Store{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		prefix:     prefixIn,
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned Store object's
// Config and Client fields.
func (s *Store) Init() error {
	var err error
	s.Config, err = config.LoadDefaultConfig(s.ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(s.Config)

	return s.CheckAccess()
}

// CheckAccess verifies the bucket exists and can be listed.
func (s *Store) CheckAccess() error {
	if _, err := s.Client.HeadBucket(s.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			s.bucketName, err)
	}

	if _, err := s.Client.ListObjectsV2(s.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		Prefix:  aws.String(s.prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w",
			s.bucketName, err)
	}

	return nil
}

func (s *Store) objectKey(parts ...string) string {
	key := "/" + path.Join(append([]string{s.prefix}, parts...)...)
	if s.gzip {
		key += ".gz"
	}
	return key
}

func (s *Store) getObject(key string) ([]byte, error) {
	resp, err := s.Client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%v%v: %w", s.bucketName, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %v%v: %w", s.bucketName,
			key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if s.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v%v: %w",
				s.bucketName, key, err)
		}
		defer rdr.Close()
	}

	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %v%v: %w", s.bucketName,
			key, err)
	}
	return data, nil
}

func (s *Store) putObject(key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v%v: %w", s.bucketName,
				key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v%v: %w",
				s.bucketName, key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(s.ctx, input); err != nil {
		return fmt.Errorf("put failed for %v%v: %w", s.bucketName, key, err)
	}
	return nil
}

func cacheKeyToObjectName(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached response stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := s.getObject(s.objectKey("httpcache", cacheKeyToObjectName(key)))
	if err != nil {
		// not found just indicates a cache miss
		if s.logErrors && !errors.Is(err, ErrNotFound) {
			log.Printf("s3store.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set stores the provided data in the cache under the given key.
func (s *Store) Set(key string, data []byte) {
	err := s.putObject(s.objectKey("httpcache", cacheKeyToObjectName(key)),
		data, "")
	if err != nil && s.logErrors {
		log.Printf("s3store.set: %v", err)
	}
}

func (s *Store) Delete(key string) {
	_, err := s.Client.DeleteObject(s.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey("httpcache", cacheKeyToObjectName(key))),
	})
	if err != nil && s.logErrors {
		log.Printf("s3store.delete: delete failed: %v", err)
	}
}

func playerObjectName(name string) string {
	return url.PathEscape(name) + ".json"
}

// SavePlayer writes a snapshot of p, replacing any earlier one.
func (s *Store) SavePlayer(p *elo.Player) error {
	snap := PlayerSnapshot{
		Name:        p.String(),
		Rating:      p.Rating(),
		GamesPlayed: p.GamesPlayed(),
		Pro:         p.IsPro(),
		KFactor:     p.KFactor(),
		SavedAt:     time.Now().UTC(),
	}
	_, snap.KFactorFixed = p.KFactorOverride()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("s3store.saveplayer: marshal %v: %w", p, err)
	}

	err = s.putObject(s.objectKey("players", playerObjectName(snap.Name)), data,
		"application/json")
	if err != nil {
		return fmt.Errorf("s3store.saveplayer: %w", err)
	}
	return nil
}

// SaveGame appends a snapshot of a resolved game.
func (s *Store) SaveGame(g *elo.Game) error {
	result, ok := g.Result()
	if !ok {
		return fmt.Errorf("s3store.savegame: game %v has no result", g)
	}
	rOne, _ := g.RatingFor(g.One())
	rTwo, _ := g.RatingFor(g.Two())
	oneNew, err := rOne.NewRating()
	if err != nil {
		return fmt.Errorf("s3store.savegame: %w", err)
	}
	twoNew, err := rTwo.NewRating()
	if err != nil {
		return fmt.Errorf("s3store.savegame: %w", err)
	}

	now := time.Now().UTC()
	snap := GameSnapshot{
		PlayerOne:    g.One().String(),
		PlayerTwo:    g.Two().String(),
		Result:       result,
		OneOldRating: int(rOne.OldRating),
		OneNewRating: oneNew,
		OneKFactor:   rOne.KFactor,
		TwoOldRating: int(rTwo.OldRating),
		TwoNewRating: twoNew,
		TwoKFactor:   rTwo.KFactor,
		SavedAt:      now,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("s3store.savegame: marshal %v: %w", g, err)
	}

	name := fmt.Sprintf("%020d-%06d.json", now.UnixNano(), s.gameSeq.Add(1))
	err = s.putObject(s.objectKey("games", name), data, "application/json")
	if err != nil {
		return fmt.Errorf("s3store.savegame: %w", err)
	}
	return nil
}

// LoadPlayer reads the snapshot saved for name and returns the options
// needed to recreate the player. The second return value is false if no
// snapshot exists.
func (s *Store) LoadPlayer(name string) (elo.PlayerOptions, bool, error) {
	data, err := s.getObject(s.objectKey("players", playerObjectName(name)))
	if errors.Is(err, ErrNotFound) {
		return elo.PlayerOptions{}, false, nil
	}
	if err != nil {
		return elo.PlayerOptions{}, false,
			fmt.Errorf("s3store.loadplayer: %w", err)
	}

	var snap PlayerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return elo.PlayerOptions{}, false,
			fmt.Errorf("s3store.loadplayer: unmarshal %v: %w", name, err)
	}

	opts := elo.PlayerOptions{
		Name:        snap.Name,
		Rating:      elo.Int(snap.Rating),
		GamesPlayed: elo.Int(snap.GamesPlayed),
		Pro:         snap.Pro,
	}
	if snap.KFactorFixed {
		opts.KFactor = elo.Int(snap.KFactor)
	}
	return opts, true, nil
}
