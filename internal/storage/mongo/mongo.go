package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	commentsCollection      = "comments"
	likesCollection         = "likes"
	followsCollection       = "follows"
	refreshTokensCollection = "refresh_tokens"

	defaultDBName = "blog"
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	client        *mongodriver.Client
	db            *mongodriver.Database
	users         *mongodriver.Collection
	posts         *mongodriver.Collection
	comments      *mongodriver.Collection
	likes         *mongodriver.Collection
	follows       *mongodriver.Collection
	refreshTokens *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение, подготавливает коллекции
// и обеспечивает индексацию.
func New(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))

	m := &Mongo{
		client:        cli,
		db:            db,
		users:         db.Collection(usersCollection),
		posts:         db.Collection(postsCollection),
		comments:      db.Collection(commentsCollection),
		likes:         db.Collection(likesCollection),
		follows:       db.Collection(followsCollection),
		refreshTokens: db.Collection(refreshTokensCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close разрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы, необходимые сервису.
//   - users: уникальные email и username;
//   - refresh_tokens: TTL по expires_at (подчистка просроченных записей
//     самим Mongo; _id — хэш токена, уникален по построению);
//   - likes: уникальная тройка user_id+target_id+target_type и индекс цели;
//   - follows: уникальная пара follower_id+following_id;
//   - posts: лента автора и общая лента по created_at(desc);
//   - comments: выборка треда post_id + parent_id + created_at(desc).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	type idx struct {
		coll   *mongodriver.Collection
		models []mongodriver.IndexModel
	}

	all := []idx{
		{m.users, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("uniq_username").SetUnique(true),
			},
		}},
		{m.refreshTokens, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("by_user"),
			},
		}},
		{m.likes, []mongodriver.IndexModel{
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "target_id", Value: 1},
					{Key: "target_type", Value: 1},
				},
				Options: options.Index().SetName("uniq_user_target").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "target_type", Value: 1}},
				Options: options.Index().SetName("by_target"),
			},
		}},
		{m.follows, []mongodriver.IndexModel{
			{
				Keys: bson.D{
					{Key: "follower_id", Value: 1},
					{Key: "following_id", Value: 1},
				},
				Options: options.Index().SetName("uniq_follower_following").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "following_id", Value: 1}},
				Options: options.Index().SetName("by_following"),
			},
		}},
		{m.posts, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("author_created_desc"),
			},
			{
				Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("published_created_desc"),
			},
		}},
		{m.comments, []mongodriver.IndexModel{
			{
				Keys: bson.D{
					{Key: "post_id", Value: 1},
					{Key: "parent_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("post_parent_created_desc"),
			},
		}},
	}

	for _, i := range all {
		if _, err := i.coll.Indexes().CreateMany(ctx, i.models); err != nil {
			return fmt.Errorf("mongo ensure indexes (%s): %w", i.coll.Name(), err)
		}
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддаётся разбору, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
