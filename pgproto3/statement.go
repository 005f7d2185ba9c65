package pgproto3

// PreparedStatement is a thin façade over the Parse/Bind/Describe/
// Execute/Sync sequence. It holds a non-owning back-reference to its
// parent Session — the session owns no statements.
type PreparedStatement struct {
	session *Session
	name    string // "" = unnamed
	sql     string

	lastRowDescription []FieldDescription
}

// Name returns the statement's name ("" for the unnamed statement).
func (st *PreparedStatement) Name() string { return st.name }

// Bind emits a Bind message binding params (each either raw bytes or
// nil for SQL NULL, all sent as text format) to a portal. An empty
// portalName binds the unnamed portal.
func (st *PreparedStatement) Bind(portalName string, params [][]byte) error {
	if err := st.session.checkWritable(); err != nil {
		return err
	}
	st.session.activeStatement = st
	return st.session.sendFrame(buildBind(portalName, st.name, nil, params, nil))
}

// Describe emits a Describe message for this statement, requesting
// its parameter and row descriptions ahead of Execute.
func (st *PreparedStatement) Describe() error {
	if err := st.session.checkWritable(); err != nil {
		return err
	}
	st.session.activeStatement = st
	return st.session.sendFrame(buildDescribe(DescribeStatement, st.name))
}

// DescribePortal emits a Describe message for a bound portal.
func (st *PreparedStatement) DescribePortal(portalName string) error {
	if err := st.session.checkWritable(); err != nil {
		return err
	}
	st.session.activeStatement = st
	return st.session.sendFrame(buildDescribe(DescribePortal, portalName))
}

// Execute emits an Execute message for a portal. The session's
// current row description is installed from this
// statement's remembered description first, so DataRow events are
// shaped correctly even when multiple statements share a session.
func (st *PreparedStatement) Execute(portalName string, maxRows int32) error {
	if err := st.session.checkWritable(); err != nil {
		return err
	}
	st.session.activeStatement = st
	if st.lastRowDescription != nil {
		st.session.rowDescription = st.lastRowDescription
	}
	return st.session.sendFrame(buildExecute(portalName, maxRows))
}

// Sync emits a Sync message, ending the current extended-query round
// trip.
func (st *PreparedStatement) Sync() error {
	return st.session.sendFrame(buildSync())
}

// Finish closes a named statement (emitting Close) and syncs. The
// unnamed statement is never explicitly closed; Finish just syncs.
func (st *PreparedStatement) Finish() error {
	if st.name != "" {
		if err := st.session.sendFrame(buildClose(DescribeStatement, st.name)); err != nil {
			return err
		}
	}
	return st.session.sendFrame(buildSync())
}
