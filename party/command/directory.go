package command

import (
	"os"
	"path/filepath"

	"go.dedis.ch/pointers/core/store/disk"
	"go.dedis.ch/pointers/core/store/kv"
	"go.dedis.ch/pointers/crypto/ed25519"
	"go.dedis.ch/pointers/crypto/loader"
	"go.dedis.ch/pointers/party"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// DirectoryFile is the name of the file that lists the parties in the
// configuration folder.
const DirectoryFile = "parties.yaml"

const (
	keyFile   = "private.key"
	vaultFile = "vault.db"
)

// entry describes where the resources of a party live. The paths are relative
// to the configuration folder.
type entry struct {
	Name  string `yaml:"name"`
	Key   string `yaml:"key"`
	Vault string `yaml:"vault"`
}

// directory is the list of the parties known in a configuration folder.
type directory struct {
	Parties []entry `yaml:"parties"`
}

func (d directory) find(name string) (entry, bool) {
	for _, e := range d.Parties {
		if e.Name == name {
			return e, true
		}
	}

	return entry{}, false
}

// loadDirectory reads the directory of the configuration folder. A missing
// file is an empty directory.
func loadDirectory(folder string) (directory, error) {
	var dir directory

	data, err := os.ReadFile(filepath.Join(folder, DirectoryFile))
	if os.IsNotExist(err) {
		return dir, nil
	}
	if err != nil {
		return dir, xerrors.Errorf("failed to read directory: %v", err)
	}

	err = yaml.Unmarshal(data, &dir)
	if err != nil {
		return dir, xerrors.Errorf("malformed directory: %v", err)
	}

	return dir, nil
}

func saveDirectory(folder string, dir directory) error {
	data, err := yaml.Marshal(dir)
	if err != nil {
		return xerrors.Errorf("failed to encode directory: %v", err)
	}

	err = os.MkdirAll(folder, 0700)
	if err != nil {
		return xerrors.Errorf("failed to create folder: %v", err)
	}

	err = os.WriteFile(filepath.Join(folder, DirectoryFile), data, 0600)
	if err != nil {
		return xerrors.Errorf("failed to write directory: %v", err)
	}

	return nil
}

// signerGenerator generates the private key of a new party.
//
// - implements loader.Generator
type signerGenerator struct{}

func (signerGenerator) Generate() ([]byte, error) {
	return ed25519.NewSigner().MarshalBinary()
}

// session holds the parties opened during an action, so that a party used
// twice shares a single database.
type session struct {
	folder string
	dir    directory

	parties map[string]*party.Party
	dbs     []kv.DB
}

func openSession(folder string) (*session, error) {
	dir, err := loadDirectory(folder)
	if err != nil {
		return nil, err
	}

	s := &session{
		folder:  folder,
		dir:     dir,
		parties: make(map[string]*party.Party),
	}

	return s, nil
}

// get opens the party with the given name, or returns it if it is already
// opened.
func (s *session) get(name string) (*party.Party, error) {
	p, found := s.parties[name]
	if found {
		return p, nil
	}

	e, found := s.dir.find(name)
	if !found {
		return nil, xerrors.Errorf("unknown party '%s'", name)
	}

	data, err := loader.NewFileLoader(filepath.Join(s.folder, e.Key)).Load()
	if err != nil {
		return nil, xerrors.Errorf("failed to load key: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return nil, xerrors.Errorf("malformed key: %v", err)
	}

	db, err := kv.New(filepath.Join(s.folder, e.Vault))
	if err != nil {
		return nil, xerrors.Errorf("failed to open vault: %v", err)
	}

	s.dbs = append(s.dbs, db)

	vault := disk.NewVault(db, party.NewTransactionFactory(ed25519.NewPublicKeyFactory()))

	err = vault.Load()
	if err != nil {
		return nil, xerrors.Errorf("failed to load vault: %v", err)
	}

	p = party.NewParty(name, signer, vault, party.NewVerifier())
	s.parties[name] = p

	return p, nil
}

// create registers a new party in the directory, with a fresh key and an
// empty vault.
func (s *session) create(name string) (*party.Party, error) {
	_, found := s.dir.find(name)
	if found {
		return nil, xerrors.Errorf("party '%s' already exists", name)
	}

	e := entry{
		Name:  name,
		Key:   filepath.Join(name, keyFile),
		Vault: filepath.Join(name, vaultFile),
	}

	_, err := loader.NewFileLoader(filepath.Join(s.folder, e.Key)).LoadOrCreate(signerGenerator{})
	if err != nil {
		return nil, xerrors.Errorf("failed to create key: %v", err)
	}

	s.dir.Parties = append(s.dir.Parties, e)

	err = saveDirectory(s.folder, s.dir)
	if err != nil {
		return nil, err
	}

	return s.get(name)
}

// Close closes the databases of the opened parties.
func (s *session) Close() error {
	for _, db := range s.dbs {
		err := db.Close()
		if err != nil {
			return xerrors.Errorf("failed to close vault: %v", err)
		}
	}

	return nil
}
