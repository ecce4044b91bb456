package cli_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationGitExecutable       = "git"
	integrationInitialBranchFlag   = "--initial-branch=main"
	integrationCommitterDateFormat = "@%d +0000"
	integrationCommitMessage       = "snapshot"
	integrationTrackedFileName     = "notes.txt"
	integrationUntrackedFileName   = "scratch.txt"
	integrationRecentCommitAge     = 24 * time.Hour
	integrationStaleCommitAge      = 45 * 24 * time.Hour
)

func runGit(testInstance *testing.T, workingDirectory string, commitTime time.Time, arguments ...string) {
	testInstance.Helper()
	committerDate := fmt.Sprintf(integrationCommitterDateFormat, commitTime.Unix())
	command := exec.Command(integrationGitExecutable, append([]string{"-c", "user.name=Auditor", "-c", "user.email=auditor@example.com", "-c", "commit.gpgsign=false"}, arguments...)...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_DATE="+committerDate,
		"GIT_COMMITTER_DATE="+committerDate,
	)
	output, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
}

func initializeCheckout(testInstance *testing.T, checkoutPath string, commitTime time.Time) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(checkoutPath, 0o755))
	runGit(testInstance, checkoutPath, commitTime, "init", "--quiet", integrationInitialBranchFlag)
	commitFile(testInstance, checkoutPath, commitTime, "initial")
}

func commitFile(testInstance *testing.T, checkoutPath string, commitTime time.Time, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(checkoutPath, integrationTrackedFileName), []byte(content), 0o644))
	runGit(testInstance, checkoutPath, commitTime, "add", integrationTrackedFileName)
	runGit(testInstance, checkoutPath, commitTime, "commit", "--quiet", "-m", integrationCommitMessage)
}

func TestApplicationAuditsRealCheckouts(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(integrationGitExecutable); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	now := time.Now().UTC().Truncate(time.Second)
	recentCommit := now.Add(-integrationRecentCommitAge)
	staleCommit := now.Add(-integrationStaleCommitAge)

	baseDirectory := testInstance.TempDir()
	remoteDirectory := filepath.Join(testInstance.TempDir(), "origin.git")
	runGit(testInstance, testInstance.TempDir(), now, "init", "--quiet", "--bare", integrationInitialBranchFlag, remoteDirectory)

	aheadCheckout := filepath.Join(baseDirectory, "ahead")
	initializeCheckout(testInstance, aheadCheckout, recentCommit)
	runGit(testInstance, aheadCheckout, recentCommit, "remote", "add", "origin", remoteDirectory)
	runGit(testInstance, aheadCheckout, recentCommit, "push", "--quiet", "-u", "origin", "main")
	commitFile(testInstance, aheadCheckout, recentCommit, "unpublished")

	cleanCheckout := filepath.Join(baseDirectory, "clean")
	initializeCheckout(testInstance, cleanCheckout, recentCommit)

	dirtyCheckout := filepath.Join(baseDirectory, "dirty")
	initializeCheckout(testInstance, dirtyCheckout, recentCommit)
	require.NoError(testInstance, os.WriteFile(filepath.Join(dirtyCheckout, integrationUntrackedFileName), []byte("draft"), 0o644))

	emptyCheckout := filepath.Join(baseDirectory, "empty")
	require.NoError(testInstance, os.MkdirAll(emptyCheckout, 0o755))
	runGit(testInstance, emptyCheckout, now, "init", "--quiet", integrationInitialBranchFlag)

	staleCheckout := filepath.Join(baseDirectory, "stale")
	initializeCheckout(testInstance, staleCheckout, staleCommit)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(staleCheckout, ".git", "info"), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(staleCheckout, ".git", "info", "exclude"), []byte("vendor/\n"), 0o644))
	initializeCheckout(testInstance, filepath.Join(staleCheckout, "vendor", "nested"), staleCommit)

	_, output, executionError := executeApplication(testInstance, "--log-level", "error", baseDirectory)
	require.NoError(testInstance, executionError)

	expectedOutput := testBannerPrefixConstant + baseDirectory + "\n\n" +
		"[↑] Ahead of origin/main:    " + aheadCheckout + "\n" +
		"[!] Uncommitted changes:     " + dirtyCheckout + "\n" +
		"[-] Inactive >30 days:       " + staleCheckout + " (Last: " + staleCommit.Format("2006-01-02") + ")\n"
	require.Equal(testInstance, expectedOutput, output)
}
