// internal/loan/mapper.go
package loan

import "libraryloans/internal/clients"

// newLoan assembles a loan from the request and the three fetched records.
// Snapshot ids come from the request so they always match what the caller
// referenced; names and titles come from the fetched records.
func newLoan(req *Request, id LoanIdentifier, account *clients.Account, book *clients.Book, worker *clients.Worker) *Loan {
	l := &Loan{LoanIdentifier: id}
	overwrite(l, req, account, book, worker)
	return l
}

// overwrite replaces every mutable field of l. There is no partial update.
func overwrite(l *Loan, req *Request, account *clients.Account, book *clients.Book, worker *clients.Worker) {
	l.Account = AccountSnapshot{
		AccountID: req.AccountID,
		Firstname: account.Firstname,
		Lastname:  account.Lastname,
	}
	l.Book = BookSnapshot{
		BookID: req.BookID,
		Title:  book.Title,
		Author: book.Author,
	}
	l.Worker = WorkerSnapshot{
		LibrarianID: req.LibrarianID,
		Firstname:   worker.Firstname,
		Lastname:    worker.Lastname,
	}
	l.LoanStatus = req.LoanStatus
	l.LoanDate = req.LoanDate
	l.DueDate = req.DueDate
}

func toResponse(l *Loan) Response {
	return Response{
		LoanID:             l.LoanIdentifier.LoanID,
		AccountID:          l.Account.AccountID,
		LibrarianID:        l.Worker.LibrarianID,
		BookID:             l.Book.BookID,
		CustomerFirstname:  l.Account.Firstname,
		CustomerLastname:   l.Account.Lastname,
		LibrarianFirstname: l.Worker.Firstname,
		LibrarianLastname:  l.Worker.Lastname,
		Title:              l.Book.Title,
		Author:             l.Book.Author,
		LoanStatus:         l.LoanStatus,
		LoanDate:           l.LoanDate,
		DueDate:            l.DueDate,
	}
}

// toResponses never returns nil.
func toResponses(loans []*Loan) []Response {
	out := make([]Response, 0, len(loans))
	for _, l := range loans {
		if l == nil {
			continue
		}
		out = append(out, toResponse(l))
	}
	return out
}
