package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	arenav1 "github.com/and161185/dragon-arena/api/arenav1"
	"github.com/and161185/dragon-arena/internal/crypto"
	"github.com/and161185/dragon-arena/internal/identity"
)

// saltLen is the size of the random salt mixed into a commitment.
const saltLen = 32

type command func(ctx context.Context, cli arenav1.ArenaClient, args []string) error

var commands = map[string]command{
	"create-account": cmdCreateAccount,
	"account":        cmdAccount,
	"mint":           cmdMint,
	"select-dragon":  cmdSelectDragon,
	"select-cluster": cmdSelectCluster,
	"level-up":       cmdLevelUp,
	"award-exp":      cmdAwardExp,
	"dragon":         cmdDragon,
	"create-cluster": cmdCreateCluster,
	"cluster":        cmdCluster,
	"start-battle":   cmdStartBattle,
	"commit":         cmdCommit,
	"reveal":         cmdReveal,
	"battle":         cmdBattle,
}

// ------- local commit store -------

// pendingCommit is what a player must keep between commit and reveal.
type pendingCommit struct {
	Salt    string `json:"salt"`
	Actions []byte `json:"actions"`
}

func commitPath(battleID string) string {
	return filepath.Join(cfgDir(), "commits", strings.ReplaceAll(battleID, ":", "_")+".json")
}

func savePending(battleID string, p pendingCommit) error {
	path := commitPath(battleID)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func loadPending(battleID string) (pendingCommit, error) {
	var p pendingCommit
	b, err := os.ReadFile(commitPath(battleID))
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(b, &p)
	return p, err
}

// ------- parsers -------

// parseActions turns "0,1,0" into skill indices; an empty string is an empty action list.
func parseActions(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", p, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// ------- commands -------

// cmdToken signs a bearer token for an identity and stores it for later calls.
func cmdToken(args []string, now time.Time) error {
	fs := newFlags("token")
	sub := fs.String("sub", "", "identity")
	key := fs.String("key", os.Getenv("ARENA_JWT_KEY"), "HS256 signing key")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sub == "" || *key == "" {
		return errors.New("need -sub and -key")
	}
	tok, err := identity.Issue([]byte(*key), *sub, now, *ttl)
	if err != nil {
		return err
	}
	if err := saveToken(tok, *sub, now.Add(*ttl)); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func cmdCreateAccount(ctx context.Context, cli arenav1.ArenaClient, _ []string) error {
	if _, err := cli.CreateAccount(ctx, &arenav1.CreateAccountRequest{}); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func cmdAccount(ctx context.Context, cli arenav1.ArenaClient, _ []string) error {
	out, err := cli.GetAccount(ctx, &arenav1.GetAccountRequest{})
	if err != nil {
		return err
	}
	printJSON(out.GetAccount())
	return nil
}

func cmdMint(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("mint")
	owner := fs.String("owner", "", "owner identity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *owner == "" {
		return errors.New("need -owner")
	}
	out, err := cli.MintDragon(ctx, &arenav1.MintDragonRequest{Owner: *owner})
	if err != nil {
		return err
	}
	fmt.Println(out.GetDragonId())
	return nil
}

func cmdSelectDragon(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("select-dragon")
	id := fs.Uint64("id", 0, "dragon id")
	clearSel := fs.Bool("clear", false, "clear the selection")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req := &arenav1.SelectDragonRequest{}
	switch {
	case *clearSel:
	case isSet(fs, "id"):
		req.DragonId = id
	default:
		return errors.New("need -id or -clear")
	}
	if _, err := cli.SelectDragon(ctx, req); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func cmdSelectCluster(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("select-cluster")
	id := fs.Uint64("id", 0, "cluster id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := cli.SelectCluster(ctx, &arenav1.SelectClusterRequest{ClusterId: *id}); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func cmdLevelUp(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("level-up")
	id := fs.Uint64("id", 0, "dragon id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := cli.LevelUp(ctx, &arenav1.LevelUpRequest{DragonId: *id})
	if err != nil {
		return err
	}
	printJSON(out.GetDragon())
	return nil
}

func cmdAwardExp(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("award-exp")
	id := fs.Uint64("id", 0, "dragon id")
	amount := fs.Uint("amount", 0, "experience to add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *amount == 0 || uint64(*amount) > uint64(^uint32(0)) {
		return errors.New("need -amount in 1..4294967295")
	}
	out, err := cli.AwardExperience(ctx, &arenav1.AwardExperienceRequest{DragonId: *id, Amount: uint32(*amount)})
	if err != nil {
		return err
	}
	printJSON(out.GetDragon())
	return nil
}

func cmdDragon(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("dragon")
	id := fs.Uint64("id", 0, "dragon id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := cli.GetDragon(ctx, &arenav1.GetDragonRequest{DragonId: *id})
	if err != nil {
		return err
	}
	printJSON(out.GetDragon())
	return nil
}

func cmdCreateCluster(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("create-cluster")
	id := fs.Uint64("id", 0, "cluster id")
	maxLevel := fs.Uint("max-level", 255, "highest dragon level admitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *maxLevel > 255 {
		return errors.New("-max-level must be at most 255")
	}
	_, err := cli.CreateCluster(ctx, &arenav1.CreateClusterRequest{ClusterId: *id, MaxLevel: uint32(*maxLevel)})
	if err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func cmdCluster(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("cluster")
	id := fs.Uint64("id", 0, "cluster id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := cli.GetCluster(ctx, &arenav1.GetClusterRequest{ClusterId: *id})
	if err != nil {
		return err
	}
	printJSON(out.GetCluster())
	return nil
}

func cmdStartBattle(ctx context.Context, cli arenav1.ArenaClient, _ []string) error {
	out, err := cli.StartBattle(ctx, &arenav1.StartBattleRequest{})
	if err != nil {
		return err
	}
	if !out.GetPaired() {
		fmt.Println("waiting for an opponent")
		return nil
	}
	fmt.Println(out.GetBattleId())
	return nil
}

// cmdCommit draws a salt, commits to the actions and keeps both for the reveal.
func cmdCommit(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("commit")
	battleID := fs.String("battle", "", "battle id")
	rawActions := fs.String("actions", "", "comma-separated skill indices")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *battleID == "" {
		return errors.New("need -battle")
	}
	actions, err := parseActions(*rawActions)
	if err != nil {
		return err
	}
	salt, err := crypto.RandBytes(saltLen)
	if err != nil {
		return err
	}
	commitment := crypto.CommitActions(salt, actions)
	if _, err := cli.CommitActions(ctx, &arenav1.CommitActionsRequest{BattleId: *battleID, Commitment: commitment}); err != nil {
		return err
	}
	if err := savePending(*battleID, pendingCommit{Salt: hex.EncodeToString(salt), Actions: actions}); err != nil {
		return fmt.Errorf("committed but could not save salt: %w", err)
	}
	fmt.Println(hex.EncodeToString(commitment))
	return nil
}

// cmdReveal sends the committed actions. Without -actions the stored ones are used.
func cmdReveal(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("reveal")
	battleID := fs.String("battle", "", "battle id")
	rawActions := fs.String("actions", "", "comma-separated skill indices")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *battleID == "" {
		return errors.New("need -battle")
	}

	var actions []byte
	pending, pendingErr := loadPending(*battleID)
	if isSet(fs, "actions") {
		var err error
		if actions, err = parseActions(*rawActions); err != nil {
			return err
		}
		if pendingErr == nil {
			salt, err := hex.DecodeString(pending.Salt)
			if err != nil {
				return fmt.Errorf("stored salt: %w", err)
			}
			if !crypto.VerifyCommitment(crypto.CommitActions(salt, pending.Actions), salt, actions) {
				fmt.Fprintln(os.Stderr, "warning: actions differ from the committed ones")
			}
		}
	} else {
		if pendingErr != nil {
			return fmt.Errorf("no stored commitment for %s; pass -actions: %w", *battleID, pendingErr)
		}
		actions = pending.Actions
	}
	if actions == nil {
		actions = []byte{}
	}

	out, err := cli.RevealActions(ctx, &arenav1.RevealActionsRequest{BattleId: *battleID, Actions: actions})
	if err != nil {
		return err
	}
	if out.GetBattle().GetState() == "resolved" {
		_ = os.Remove(commitPath(*battleID))
	}
	printJSON(out.GetBattle())
	return nil
}

func cmdBattle(ctx context.Context, cli arenav1.ArenaClient, args []string) error {
	fs := newFlags("battle")
	battleID := fs.String("battle", "", "battle id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *battleID == "" {
		return errors.New("need -battle")
	}
	out, err := cli.GetBattle(ctx, &arenav1.GetBattleRequest{BattleId: *battleID})
	if err != nil {
		return err
	}
	printJSON(out.GetBattle())
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
