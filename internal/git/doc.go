// Package git wraps the git executable for gy.
//
// Commands are run by shelling out to git with stdout and stderr captured;
// failures become *output.ExitError values (git missing or non-zero exit are
// system errors). Repository detection uses go-git so it works before any
// git subprocess is spawned.
//
//	diff, err := git.StagedDiff(ctx)        // git diff --staged
//	stat, err := git.StagedStat(ctx)        // parsed --stat summary
//	err = git.Commit(ctx, msg, out, errOut) // git commit --file=-
//	repo, err := git.OpenRepo(".")          // root and branch
package git
